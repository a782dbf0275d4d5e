package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	domaincatalog "gamecatalog/app/internal/domain/catalog"
)

const (
	platformsCollection = "platforms"
	gamesCollection     = "games"
)

type platformDocument struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
	Slug string             `bson:"slug"`
}

type gameDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Slug         string             `bson:"slug"`
	PlatformSlug string             `bson:"platform_slug"`
}

func (d platformDocument) toDomain() domaincatalog.Platform {
	return domaincatalog.Platform{
		ID:   d.ID.Hex(),
		Name: d.Name,
		Slug: d.Slug,
	}
}

func (d gameDocument) toDomain() domaincatalog.Game {
	return domaincatalog.Game{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Slug:         d.Slug,
		PlatformSlug: d.PlatformSlug,
	}
}

func platformFilter(filter domaincatalog.PlatformFilter) bson.D {
	query := bson.D{}
	if filter.Name != "" {
		query = append(query, bson.E{Key: "name", Value: filter.Name})
	}
	if filter.Slug != "" {
		query = append(query, bson.E{Key: "slug", Value: filter.Slug})
	}
	return query
}

func gameFilter(filter domaincatalog.GameFilter) bson.D {
	query := bson.D{}
	if filter.Name != "" {
		query = append(query, bson.E{Key: "name", Value: filter.Name})
	}
	if filter.Slug != "" {
		query = append(query, bson.E{Key: "slug", Value: filter.Slug})
	}
	if filter.PlatformSlug != "" {
		query = append(query, bson.E{Key: "platform_slug", Value: filter.PlatformSlug})
	}
	return query
}

// byID builds an _id filter; ok is false when id is not an ObjectID hex string.
func byID(id string) (bson.D, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	return bson.D{{Key: "_id", Value: oid}}, true
}
