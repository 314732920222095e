package core

import (
	"go.mongodb.org/mongo-driver/bson"
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// SortDocument converts orderings into a sort specification for the document store.
func SortDocument(orderings ...DBOrdering) bson.D {
	sort := make(bson.D, 0, len(orderings))
	for _, ord := range orderings {
		direction := -1
		if ord.Ascending {
			direction = 1
		}
		sort = append(sort, bson.E{Key: ord.Field, Value: direction})
	}
	return sort
}

// NewestFirst is the default ordering of feeds and listings.
var NewestFirst = DBOrdering{Field: "created_at", Ascending: false}
