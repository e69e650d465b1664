package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lhpaul/finadmin/internal/repository"
	"github.com/lhpaul/finadmin/internal/store"
)

// documentResponse is the uniform read shape: envelope fields the store
// owns, entity fields under data.
type documentResponse[T any] struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Data      T         `json:"data"`
}

func toResponse[T any](doc *repository.Document[T]) documentResponse[T] {
	return documentResponse[T]{
		ID:        doc.ID,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
		Data:      doc.Data,
	}
}

func toResponses[T any](docs []*repository.Document[T]) []documentResponse[T] {
	out := make([]documentResponse[T], 0, len(docs))
	for _, doc := range docs {
		out = append(out, toResponse(doc))
	}
	return out
}

// listOptions reads limit, offset and orderBy ("field" or "field:desc")
// query parameters.
func listOptions(c *fiber.Ctx) *repository.ListOptions {
	opts := &repository.ListOptions{
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}
	if orderBy := c.Query("orderBy"); orderBy != "" {
		field, dir, _ := strings.Cut(orderBy, ":")
		direction := store.Ascending
		if dir == "desc" {
			direction = store.Descending
		}
		opts.OrderBy = []repository.Order{{Field: field, Direction: direction}}
	}
	return opts
}
