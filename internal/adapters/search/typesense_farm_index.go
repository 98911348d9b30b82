package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/repositories"
	tsclient "github.com/Yong0-sa/weconnect-sub000/internal/infrastructure/clients/typesense"
)

// maxPerPage is the largest page Typesense serves
const maxPerPage = 250

// TypesenseFarmIndex implements FarmIndex using Typesense geo search
type TypesenseFarmIndex struct {
	client *tsclient.Client
}

// Ensure TypesenseFarmIndex implements FarmIndex
var _ repositories.FarmIndex = (*TypesenseFarmIndex)(nil)

// NewTypesenseFarmIndex creates a new Typesense farm index
func NewTypesenseFarmIndex(client *tsclient.Client) *TypesenseFarmIndex {
	return &TypesenseFarmIndex{client: client}
}

// Replace drops and rebuilds the collection from farms
func (i *TypesenseFarmIndex) Replace(ctx context.Context, farms []entities.Farm) error {
	if err := i.client.DropFarms(ctx); err != nil {
		return err
	}
	if err := i.client.InitSchema(ctx); err != nil {
		return err
	}
	for _, f := range farms {
		if err := i.Upsert(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

// Upsert indexes a farm
func (i *TypesenseFarmIndex) Upsert(ctx context.Context, farm entities.Farm) error {
	if err := i.client.UpsertFarm(ctx, farmDocument(farm)); err != nil {
		return fmt.Errorf("failed to index farm %d: %w", farm.ID, err)
	}
	return nil
}

// Within runs a polygon filter over the viewport sorted by distance from its centre
func (i *TypesenseFarmIndex) Within(ctx context.Context, bounds entities.Bounds, limit int) ([]entities.Farm, error) {
	if !bounds.Valid() {
		return nil, nil
	}
	if limit <= 0 || limit > maxPerPage {
		limit = maxPerPage
	}
	centerLat, centerLon := bounds.Center()

	params := &api.SearchCollectionParams{
		Q:        pointer.String("*"),
		QueryBy:  pointer.String("name"),
		FilterBy: pointer.String(viewportFilter(bounds)),
		SortBy:   pointer.String(fmt.Sprintf("location(%f, %f):asc", centerLat, centerLon)),
		Page:     pointer.Int(1),
		PerPage:  pointer.Int(limit),
	}
	return i.search(ctx, params)
}

// Match runs a keyword search over name, address and city
func (i *TypesenseFarmIndex) Match(ctx context.Context, keyword string) ([]entities.Farm, error) {
	q := strings.TrimSpace(keyword)
	if q == "" {
		q = "*"
	}
	params := &api.SearchCollectionParams{
		Q:       pointer.String(q),
		QueryBy: pointer.String("name,address,city"),
		SortBy:  pointer.String("farm_id:asc"),
		Page:    pointer.Int(1),
		PerPage: pointer.Int(maxPerPage),
	}
	return i.search(ctx, params)
}

func (i *TypesenseFarmIndex) search(ctx context.Context, params *api.SearchCollectionParams) ([]entities.Farm, error) {
	result, err := i.client.Client().Collection(tsclient.FarmsCollection).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search farms: %w", err)
	}
	if result.Hits == nil {
		return nil, nil
	}

	farms := make([]entities.Farm, 0, len(*result.Hits))
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		farms = append(farms, farmFromDocument(*hit.Document))
	}
	return farms, nil
}

// viewportFilter renders bounds as a Typesense polygon, vertices clockwise from the north-west corner
func viewportFilter(b entities.Bounds) string {
	return fmt.Sprintf("location:(%f, %f, %f, %f, %f, %f, %f, %f)",
		b.North, b.West,
		b.North, b.East,
		b.South, b.East,
		b.South, b.West,
	)
}

func farmDocument(f entities.Farm) map[string]interface{} {
	doc := map[string]interface{}{
		"id":           strconv.FormatInt(f.ID, 10),
		"farm_id":      f.ID,
		"name":         f.Name,
		"address":      f.Address,
		"city":         f.City,
		"phone":        f.Phone,
		"owner_id":     f.OwnerID,
		"owner_name":   f.OwnerName,
		"has_location": false,
	}
	if lat, lon, ok := f.Coordinates(); ok {
		doc["location"] = []float64{lat, lon}
		doc["has_location"] = true
	}
	return doc
}

func farmFromDocument(doc map[string]interface{}) entities.Farm {
	f := entities.Farm{
		Name:      stringField(doc, "name"),
		Address:   stringField(doc, "address"),
		City:      stringField(doc, "city"),
		Phone:     stringField(doc, "phone"),
		OwnerName: stringField(doc, "owner_name"),
	}
	if v, ok := doc["farm_id"].(float64); ok {
		f.ID = int64(v)
	}
	if v, ok := doc["owner_id"].(float64); ok {
		f.OwnerID = int64(v)
	}
	if loc, ok := doc["location"].([]interface{}); ok && len(loc) == 2 {
		lat, latOK := loc[0].(float64)
		lon, lonOK := loc[1].(float64)
		if latOK && lonOK {
			f.Latitude = &lat
			f.Longitude = &lon
		}
	}
	return f
}

func stringField(doc map[string]interface{}, key string) string {
	s, _ := doc[key].(string)
	return s
}
