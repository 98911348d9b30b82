package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Yong0-sa/weconnect-sub000/internal/application/services"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.session.Logout(ctx)
	case "coins":
		return a.showCoins(ctx, args)
	case "navigate":
		return a.navigate(ctx, args)
	case "farms":
		return a.farms(ctx, args)
	case "contracts":
		return a.contracts(ctx, args)
	case "chat":
		return a.chat(ctx, args)
	case "diary":
		return a.diary(ctx, args)
	case "shop":
		return a.shop(ctx, args)
	case "posts":
		return a.posts(ctx, args)
	case "ai":
		return a.ai(ctx, args)
	case "watch":
		return a.coins.Watch(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// subcommand splits "<name> [flags]" and parses the flags into fs
func subcommand(args []string, fs *flag.FlagSet) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%s: missing subcommand", fs.Name())
	}
	return args[0], fs.Parse(args[1:])
}

func readPhoto(path string) (*entities.Photo, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &entities.Photo{
		Filename:    filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

// viewerID resolves the signed-in user for views that depend on who is looking
func (a *app) viewerID(ctx context.Context) (int64, error) {
	profile, err := a.client.GetProfile(ctx)
	if err != nil {
		return 0, err
	}
	return profile.UserID, nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	resp, err := a.session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := a.coins.Refresh(ctx); err != nil {
		return err
	}
	return printJSON(map[string]interface{}{
		"userId":      resp.UserID,
		"nickname":    resp.Nickname,
		"coinBalance": a.coins.Balance(),
	})
}

func (a *app) showCoins(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("coins", flag.ContinueOnError)
	amount := fs.Int("amount", 0, "coins to earn or spend")
	reason := fs.String("reason", "cli", "reason recorded with the change")
	sub := "show"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch sub {
	case "show":
	case "refresh":
		if err := a.coins.Refresh(ctx); err != nil {
			return err
		}
	case "earn", "spend":
		if *amount <= 0 {
			return fmt.Errorf("coins %s: -amount must be positive", sub)
		}
		ok := false
		if sub == "earn" {
			ok = a.coins.EarnCoins(ctx, *amount, *reason)
		} else {
			ok = a.coins.SpendCoins(ctx, *amount, *reason)
		}
		if !ok {
			return fmt.Errorf("coins %s failed", sub)
		}
	default:
		return fmt.Errorf("coins: unknown subcommand %q", sub)
	}
	return printJSON(entities.NewCoinBalance(a.coins.Balance()))
}

func (a *app) navigate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("navigate: expected one path")
	}
	return printJSON(a.guard.Navigate(ctx, args[0]))
}

func (a *app) farms(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("farms", flag.ContinueOnError)
	keyword := fs.String("q", "", "match name, address or city")
	var b entities.Bounds
	fs.Float64Var(&b.South, "south", 0, "viewport south latitude")
	fs.Float64Var(&b.West, "west", 0, "viewport west longitude")
	fs.Float64Var(&b.North, "north", 0, "viewport north latitude")
	fs.Float64Var(&b.East, "east", 0, "viewport east longitude")
	near := fs.String("near", "", "lat,lon to list the closest farms from")
	n := fs.Int("n", 5, "number of farms for -near")
	if err := fs.Parse(args); err != nil {
		return err
	}

	farmMap := services.NewFarmMapService(a.client, a.index)
	farms, err := farmMap.Load(ctx)
	if err != nil {
		return err
	}
	switch {
	case *near != "":
		latText, lonText, ok := strings.Cut(*near, ",")
		if !ok {
			return fmt.Errorf("farms: -near expects lat,lon")
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
		if err != nil {
			return fmt.Errorf("farms: bad latitude: %w", err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(lonText), 64)
		if err != nil {
			return fmt.Errorf("farms: bad longitude: %w", err)
		}
		return printJSON(farmMap.Nearest(lat, lon, *n))
	case *keyword != "":
		matched, err := farmMap.Search(ctx, *keyword)
		if err != nil {
			return err
		}
		return printJSON(matched)
	case b != (entities.Bounds{}):
		markers, err := farmMap.Viewport(ctx, b)
		if err != nil {
			return err
		}
		return printJSON(markers)
	default:
		return printJSON(farms)
	}
}

func (a *app) contracts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("contracts", flag.ContinueOnError)
	farmID := fs.Int64("farm", 0, "farm to apply for")
	message := fs.String("message", "", "application message")
	id := fs.Int64("id", 0, "contract id")
	sub, err := subcommand(args, fs)
	if err != nil {
		return err
	}

	svc := services.NewContractService(a.client)
	switch sub {
	case "mine":
		list, err := svc.Mine(ctx)
		if err != nil {
			return err
		}
		return printJSON(list)
	case "received":
		list, err := svc.Received(ctx)
		if err != nil {
			return err
		}
		return printJSON(list)
	case "apply":
		c, err := svc.Apply(ctx, *farmID, *message)
		if err != nil {
			return err
		}
		return printJSON(c)
	case "approve":
		c, err := svc.Approve(ctx, *id)
		if err != nil {
			return err
		}
		return printJSON(c)
	case "reject":
		c, err := svc.Reject(ctx, *id)
		if err != nil {
			return err
		}
		return printJSON(c)
	}
	return fmt.Errorf("contracts: unknown subcommand %q", sub)
}

func (a *app) chat(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chat", flag.ContinueOnError)
	farmID := fs.Int64("farm", 0, "farm the room is about")
	farmerID := fs.Int64("farmer", 0, "farm owner; defaults to the farm's owner")
	roomID := fs.Int64("room", 0, "room id")
	text := fs.String("text", "", "message text")
	sub, err := subcommand(args, fs)
	if err != nil {
		return err
	}

	viewer, err := a.viewerID(ctx)
	if err != nil {
		return err
	}
	svc := services.NewChatService(a.client, a.client, viewer)
	switch sub {
	case "rooms":
		rooms, err := svc.LoadRooms(ctx)
		if err != nil {
			return err
		}
		return printJSON(rooms)
	case "open":
		room, err := svc.OpenRoom(ctx, *farmID, *farmerID)
		if err != nil {
			return err
		}
		return printJSON(room)
	case "send":
		if err := svc.SelectRoom(ctx, *roomID); err != nil {
			return err
		}
		svc.SetDraft(*text)
		msg, err := svc.Send(ctx)
		if err != nil {
			return err
		}
		return printJSON(msg)
	}
	return fmt.Errorf("chat: unknown subcommand %q", sub)
}

func (a *app) diary(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diary", flag.ContinueOnError)
	keyword := fs.String("q", "", "search keyword")
	title := fs.String("title", "", "entry title")
	content := fs.String("content", "", "entry body")
	date := fs.String("date", "", "civil date, YYYY-MM-DD")
	photo := fs.String("photo", "", "image file to attach")
	id := fs.Int64("id", 0, "diary id")
	sub, err := subcommand(args, fs)
	if err != nil {
		return err
	}

	svc := services.NewDiaryService(a.client, a.coins)
	switch sub {
	case "list":
		entries, err := svc.Load(ctx)
		if err != nil {
			return err
		}
		return printJSON(entries)
	case "search":
		entries, err := svc.Search(ctx, *keyword)
		if err != nil {
			return err
		}
		return printJSON(entries)
	case "create":
		p, err := readPhoto(*photo)
		if err != nil {
			return err
		}
		result, err := svc.Create(ctx, entities.DiaryInput{Title: *title, Content: *content, SelectAt: *date, Photo: p})
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, result.Notice.Message)
		return printJSON(result.Entry)
	case "delete":
		return svc.Delete(ctx, *id)
	}
	return fmt.Errorf("diary: unknown subcommand %q", sub)
}

func (a *app) shop(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("shop", flag.ContinueOnError)
	itemID := fs.Int64("item", 0, "shop item id")
	userItemID := fs.Int64("id", 0, "owned item id")
	sub, err := subcommand(args, fs)
	if err != nil {
		return err
	}

	if err := a.coins.Refresh(ctx); err != nil {
		return err
	}
	svc := services.NewShopService(a.client, a.coins)
	switch sub {
	case "items":
		items, err := svc.Items(ctx)
		if err != nil {
			return err
		}
		return printJSON(items)
	case "inventory":
		items, err := svc.Inventory(ctx)
		if err != nil {
			return err
		}
		return printJSON(items)
	case "buy":
		resp, err := svc.Buy(ctx, *itemID)
		if err != nil {
			return err
		}
		return printJSON(resp)
	case "equip":
		if _, err := svc.Inventory(ctx); err != nil {
			return err
		}
		item, err := svc.Equip(ctx, *userItemID)
		if err != nil {
			return err
		}
		return printJSON(item)
	}
	return fmt.Errorf("shop: unknown subcommand %q", sub)
}

func (a *app) posts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("posts", flag.ContinueOnError)
	farmID := fs.Int64("farm", 0, "farm filter or farm the post belongs to")
	postID := fs.Int64("post", 0, "post id")
	parentID := fs.Int64("parent", 0, "comment being replied to")
	title := fs.String("title", "", "post title")
	content := fs.String("content", "", "post body")
	text := fs.String("text", "", "comment text")
	sub, err := subcommand(args, fs)
	if err != nil {
		return err
	}

	var farm, parent *int64
	if *farmID != 0 {
		farm = farmID
	}
	if *parentID != 0 {
		parent = parentID
	}

	svc := services.NewCommunityService(a.client)
	switch sub {
	case "list":
		posts, err := svc.ListPosts(ctx, farm)
		if err != nil {
			return err
		}
		return printJSON(posts)
	case "thread":
		tree, err := svc.Thread(ctx, *postID)
		if err != nil {
			return err
		}
		return printJSON(tree)
	case "write":
		post, err := svc.CreatePost(ctx, entities.PostInput{Title: *title, Content: *content, FarmID: farm})
		if err != nil {
			return err
		}
		return printJSON(post)
	case "comment":
		c, err := svc.Comment(ctx, *postID, parent, *text)
		if err != nil {
			return err
		}
		return printJSON(c)
	}
	return fmt.Errorf("posts: unknown subcommand %q", sub)
}

func (a *app) ai(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ai", flag.ContinueOnError)
	message := fs.String("message", "", "question for the assistant")
	text := fs.String("text", "", "text to complete")
	photo := fs.String("photo", "", "crop photo to diagnose")
	sub, err := subcommand(args, fs)
	if err != nil {
		return err
	}

	svc := services.NewAIService(a.client)
	switch sub {
	case "chat":
		reply, err := svc.Chat(ctx, *message)
		if err != nil {
			return err
		}
		return printJSON(reply)
	case "suggest":
		suggestions, err := svc.Suggestions(ctx, *text)
		if err != nil {
			return err
		}
		return printJSON(suggestions)
	case "diagnose":
		p, err := readPhoto(*photo)
		if err != nil {
			return err
		}
		diagnosis, err := svc.Diagnose(ctx, p)
		if err != nil {
			return err
		}
		return printJSON(diagnosis)
	}
	return fmt.Errorf("ai: unknown subcommand %q", sub)
}
