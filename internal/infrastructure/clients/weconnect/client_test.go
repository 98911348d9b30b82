package weconnect

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	apperrors "github.com/Yong0-sa/weconnect-sub000/pkg/errors"
)

type staticToken string

func (s staticToken) Token(ctx context.Context) string { return string(s) }

// everyWrapper calls each resource method once; the argument values are irrelevant for error mapping.
func everyWrapper(c *HTTPClient) map[string]func(ctx context.Context) error {
	photo := &entities.Photo{Filename: "a.png", ContentType: "image/png", Data: []byte{1}}
	diary := entities.DiaryInput{Title: "t", Content: "c", SelectAt: "2024-05-01", Photo: photo}
	return map[string]func(ctx context.Context) error{
		"Signup":             func(ctx context.Context) error { _, err := c.Signup(ctx, entities.SignupRequest{}); return err },
		"Login":              func(ctx context.Context) error { _, err := c.Login(ctx, entities.LoginRequest{}); return err },
		"Logout":             func(ctx context.Context) error { return c.Logout(ctx) },
		"GetProfile":         func(ctx context.Context) error { _, err := c.GetProfile(ctx); return err },
		"UpdateProfile":      func(ctx context.Context) error { _, err := c.UpdateProfile(ctx, entities.ProfileUpdate{}); return err },
		"DeleteProfile":      func(ctx context.Context) error { return c.DeleteProfile(ctx) },
		"CheckNickname":      func(ctx context.Context) error { _, err := c.CheckNickname(ctx, "n"); return err },
		"VerifyPassword":     func(ctx context.Context) error { _, err := c.VerifyPassword(ctx, "p"); return err },
		"ListFarms":          func(ctx context.Context) error { _, err := c.ListFarms(ctx); return err },
		"GetFarm":            func(ctx context.Context) error { _, err := c.GetFarm(ctx, 1); return err },
		"CreateFarm":         func(ctx context.Context) error { _, err := c.CreateFarm(ctx, entities.Farm{}); return err },
		"ApplyContract":      func(ctx context.Context) error { _, err := c.ApplyContract(ctx, entities.ContractApplication{}); return err },
		"ListMyContracts":    func(ctx context.Context) error { _, err := c.ListMyContracts(ctx); return err },
		"ListOwnerContracts": func(ctx context.Context) error { _, err := c.ListOwnerContracts(ctx); return err },
		"ApproveContract":    func(ctx context.Context) error { _, err := c.ApproveContract(ctx, 1); return err },
		"RejectContract":     func(ctx context.Context) error { _, err := c.RejectContract(ctx, 1); return err },
		"ListRooms":          func(ctx context.Context) error { _, err := c.ListRooms(ctx); return err },
		"CreateRoom":         func(ctx context.Context) error { _, err := c.CreateRoom(ctx, entities.CreateRoomRequest{}); return err },
		"ListMessages":       func(ctx context.Context) error { _, err := c.ListMessages(ctx, 1); return err },
		"SendMessage":        func(ctx context.Context) error { _, err := c.SendMessage(ctx, 1, "hi"); return err },
		"ListDiaries":        func(ctx context.Context) error { _, err := c.ListDiaries(ctx); return err },
		"SearchDiaries":      func(ctx context.Context) error { _, err := c.SearchDiaries(ctx, "k"); return err },
		"GetDiary":           func(ctx context.Context) error { _, err := c.GetDiary(ctx, 1); return err },
		"CreateDiary":        func(ctx context.Context) error { _, err := c.CreateDiary(ctx, diary); return err },
		"UpdateDiary":        func(ctx context.Context) error { _, err := c.UpdateDiary(ctx, 1, diary); return err },
		"DeleteDiary":        func(ctx context.Context) error { return c.DeleteDiary(ctx, 1) },
		"GetCoins":           func(ctx context.Context) error { _, err := c.GetCoins(ctx); return err },
		"AddCoins":           func(ctx context.Context) error { _, err := c.AddCoins(ctx, 1, "r"); return err },
		"PurchaseCoins":      func(ctx context.Context) error { _, err := c.PurchaseCoins(ctx, 1, "r"); return err },
		"ListShopItems":      func(ctx context.Context) error { _, err := c.ListShopItems(ctx); return err },
		"ListMyItems":        func(ctx context.Context) error { _, err := c.ListMyItems(ctx); return err },
		"PurchaseItem":       func(ctx context.Context) error { _, err := c.PurchaseItem(ctx, 1); return err },
		"EquipItem":          func(ctx context.Context) error { _, err := c.EquipItem(ctx, 1); return err },
		"AIChat":             func(ctx context.Context) error { _, err := c.AIChat(ctx, "m"); return err },
		"AIChatHistory":      func(ctx context.Context) error { _, err := c.AIChatHistory(ctx); return err },
		"TextSuggestions":    func(ctx context.Context) error { _, err := c.TextSuggestions(ctx, "t"); return err },
		"Diagnose":           func(ctx context.Context) error { _, err := c.Diagnose(ctx, photo); return err },
		"ListPosts":          func(ctx context.Context) error { _, err := c.ListPosts(ctx, nil); return err },
		"GetPost":            func(ctx context.Context) error { _, err := c.GetPost(ctx, 1); return err },
		"CreatePost":         func(ctx context.Context) error { _, err := c.CreatePost(ctx, entities.PostInput{}); return err },
		"UpdatePost":         func(ctx context.Context) error { _, err := c.UpdatePost(ctx, 1, entities.PostInput{}); return err },
		"DeletePost":         func(ctx context.Context) error { return c.DeletePost(ctx, 1) },
		"ListComments":       func(ctx context.Context) error { _, err := c.ListComments(ctx, 1); return err },
		"CreateComment":      func(ctx context.Context) error { _, err := c.CreateComment(ctx, entities.CommentInput{}); return err },
		"DeleteComment":      func(ctx context.Context) error { return c.DeleteComment(ctx, 1) },
	}
}

func serve(status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
}

func TestEveryWrapper_401IsAuthRequiredRegardlessOfBody(t *testing.T) {
	bodies := []string{"", `{"message":"세션 만료"}`, "Unauthorized", `[1,2]`}

	for _, body := range bodies {
		server := serve(http.StatusUnauthorized, body)
		client := NewClient(server.URL)

		for name, call := range everyWrapper(client) {
			err := call(context.Background())

			require.Error(t, err, name)
			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr), name)
			assert.Equal(t, apperrors.ErrorTypeUnauthorized, appErr.Type, name)
			assert.Equal(t, apperrors.AuthRequiredMessage, appErr.Message, "%s with body %q", name, body)
		}
		server.Close()
	}
}

func TestEveryWrapper_NonOKMessageMapping(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantServer string
	}{
		{name: "json message", body: `{"message":"이미 사용 중인 닉네임입니다."}`, wantServer: "이미 사용 중인 닉네임입니다."},
		{name: "raw text", body: "Bad Request: title missing", wantServer: "Bad Request: title missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := serve(http.StatusBadRequest, tt.body)
			defer server.Close()
			client := NewClient(server.URL)

			for name, call := range everyWrapper(client) {
				err := call(context.Background())
				var appErr *apperrors.AppError
				require.True(t, errors.As(err, &appErr), name)
				assert.Equal(t, apperrors.ErrorTypeRequestFailed, appErr.Type, name)
				assert.Equal(t, http.StatusBadRequest, appErr.Status, name)
				assert.Equal(t, tt.wantServer, appErr.Message, name)
			}
		})
	}
}

func TestEveryWrapper_EmptyBodyUsesFallback(t *testing.T) {
	server := serve(http.StatusInternalServerError, "")
	defer server.Close()
	client := NewClient(server.URL)

	for name, call := range everyWrapper(client) {
		err := call(context.Background())
		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr), name)
		assert.Equal(t, apperrors.ErrorTypeRequestFailed, appErr.Type, name)
		assert.NotEmpty(t, appErr.Message, name)
		assert.NotEqual(t, defaultFallback, appErr.Message, "%s should supply its own fallback", name)
	}
}

func TestInterpretResponse(t *testing.T) {
	t.Run("json without message falls back", func(t *testing.T) {
		err := interpretResponse(http.StatusConflict, []byte(`{"error":"dup"}`), "중복입니다.", nil)
		assert.Equal(t, "중복입니다.", apperrors.UserMessage(err))
	})

	t.Run("non-string message falls back", func(t *testing.T) {
		err := interpretResponse(http.StatusBadRequest, []byte(`{"message":42}`), "실패", nil)
		assert.Equal(t, "실패", apperrors.UserMessage(err))
	})

	t.Run("missing fallback uses default", func(t *testing.T) {
		err := interpretResponse(http.StatusBadGateway, nil, "", nil)
		assert.Equal(t, defaultFallback, apperrors.UserMessage(err))
	})

	t.Run("204 leaves output untouched", func(t *testing.T) {
		out := entities.NewCoinBalance(7)
		require.NoError(t, interpretResponse(http.StatusNoContent, nil, "", out))
		assert.Equal(t, 7, *out.CoinBalance)
	})

	t.Run("success json decodes", func(t *testing.T) {
		out := &entities.CoinBalance{}
		require.NoError(t, interpretResponse(http.StatusOK, []byte(`{"coinBalance":120}`), "", out))
		require.NotNil(t, out.CoinBalance)
		assert.Equal(t, 120, *out.CoinBalance)
	})

	t.Run("success raw text becomes message", func(t *testing.T) {
		out := &entities.MessageResponse{}
		require.NoError(t, interpretResponse(http.StatusOK, []byte("회원가입 완료"), "", out))
		assert.Equal(t, "회원가입 완료", out.Message)
	})

	t.Run("success raw text into struct is malformed", func(t *testing.T) {
		out := &entities.CoinBalance{}
		err := interpretResponse(http.StatusOK, []byte("<html>"), "", out)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	})

	t.Run("success json of wrong shape is malformed", func(t *testing.T) {
		out := &entities.CoinBalance{}
		err := interpretResponse(http.StatusOK, []byte(`{"coinBalance":"many"}`), "", out)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	})
}

func TestClient_SendsCredentialsAndToken(t *testing.T) {
	var sawCookie, sawBearer, sawRequestID atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "SESSION", Value: "abc", Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"token":"jwt-token","userId":3}`)
	})
	mux.HandleFunc("/api/coins/me", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("SESSION"); err == nil && c.Value == "abc" {
			sawCookie.Store(true)
		}
		sawBearer.Store(r.Header.Get("Authorization") == "Bearer jwt-token")
		sawRequestID.Store(r.Header.Get("X-Request-ID") != "")
		_, _ = io.WriteString(w, `{"coinBalance":55}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL+"/api", WithTokenSource(staticToken("jwt-token")))

	login, err := client.Login(context.Background(), entities.LoginRequest{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", login.Token)

	balance, err := client.GetCoins(context.Background())
	require.NoError(t, err)
	require.NotNil(t, balance.CoinBalance)
	assert.Equal(t, 55, *balance.CoinBalance)
	assert.True(t, sawCookie.Load(), "session cookie must be sent back")
	assert.True(t, sawBearer.Load())
	assert.True(t, sawRequestID.Load())
}

func TestClient_CoinRepliesWithoutBalance(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/coins/add", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/api/coins/purchase", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"message":"ok"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	client := NewClient(server.URL + "/api")

	added, err := client.AddCoins(context.Background(), 10, "diary")
	require.NoError(t, err)
	assert.Nil(t, added.CoinBalance)

	spent, err := client.PurchaseCoins(context.Background(), 30, "item")
	require.NoError(t, err)
	assert.Nil(t, spent.CoinBalance)
}

func TestClient_CreateDiaryMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		meta := r.MultipartForm.Value[diaryMetadataField]
		var parsed entities.DiaryMetadata
		if len(meta) == 1 {
			require.NoError(t, json.Unmarshal([]byte(meta[0]), &parsed))
		} else {
			file, _, err := r.FormFile(diaryMetadataField)
			require.NoError(t, err)
			require.NoError(t, json.NewDecoder(file).Decode(&parsed))
		}
		assert.Equal(t, "첫 수확", parsed.Title)
		assert.Equal(t, "2024-05-01", parsed.SelectAt)

		file, header, err := r.FormFile(diaryImageField)
		require.NoError(t, err)
		data, _ := io.ReadAll(file)
		assert.Equal(t, "leaf.png", header.Filename)
		assert.Equal(t, []byte{1, 2, 3}, data)

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"diaryId":9,"title":"첫 수확","content":"상추","selectAt":"2024-05-01"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	entry, err := client.CreateDiary(context.Background(), entities.DiaryInput{
		Title:    "첫 수확",
		Content:  "상추",
		SelectAt: "2024-05-01",
		Photo:    &entities.Photo{Filename: "leaf.png", ContentType: "image/png", Data: []byte{1, 2, 3}},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(9), entry.DiaryID)
}

type flakyTransport struct {
	failures int32
	calls    atomic.Int32
	next     http.RoundTripper
}

func (f *flakyTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if f.calls.Add(1) <= f.failures {
		return nil, errors.New("connection reset by peer")
	}
	return f.next.RoundTrip(r)
}

func TestClient_RetriesGETOnTransportErrorsOnly(t *testing.T) {
	server := serve(http.StatusOK, `[{"id":1,"name":"햇살농장"}]`)
	defer server.Close()

	transport := &flakyTransport{failures: 1, next: http.DefaultTransport}
	client := NewClient(server.URL, WithHTTPClient(&http.Client{Transport: transport}), WithRetryAttempts(3))

	farms, err := client.ListFarms(context.Background())
	require.NoError(t, err)
	assert.Len(t, farms, 1)
	assert.Equal(t, int32(2), transport.calls.Load())

	transport.calls.Store(0)
	_, err = client.AddCoins(context.Background(), 10, "diary")
	assert.Error(t, err, "POST is never retried")
	assert.Equal(t, int32(1), transport.calls.Load())
}

func TestClient_NoRetryByDefault(t *testing.T) {
	server := serve(http.StatusOK, `[]`)
	defer server.Close()

	transport := &flakyTransport{failures: 1, next: http.DefaultTransport}
	client := NewClient(server.URL, WithHTTPClient(&http.Client{Transport: transport}))

	_, err := client.ListFarms(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(1), transport.calls.Load())
}
