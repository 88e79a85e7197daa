package ghapi

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/acoulton/github-v3-api/internal/constants"
)

// Indexer is random access over a remote list.
type Indexer interface {
	Count(ctx context.Context) (int, error)
	Get(ctx context.Context, index int) (*Entity, error)
	Contains(ctx context.Context, index int) (bool, error)
}

// Sequence produces restartable in-order traversals of a remote list.
type Sequence interface {
	All(ctx context.Context) iter.Seq2[*Entity, error]
}

type slotState int

const (
	slotEmpty slotState = iota
	slotRaw
	slotEntity
)

type slot struct {
	state  slotState
	raw    any
	entity *Entity
}

// Collection is a read-only, lazily paged view over a list endpoint. Pages
// are fetched on first access to one of their items and items are turned
// into entities on first access; both are cached for the collection's
// lifetime.
type Collection struct {
	client    *Client
	baseURL   string
	item      *Schema
	params    url.Values
	pageSize  int
	pageCount *int

	slots map[int]slot
	size  int
	// complete is set once the last page has been loaded, which proves
	// size is the total.
	complete bool
}

var (
	_ Indexer  = (*Collection)(nil)
	_ Sequence = (*Collection)(nil)
)

// NewCollection creates an unloaded collection of item entities. params are
// added to every page request.
func (c *Client) NewCollection(baseURL string, item *Schema, params url.Values) *Collection {
	return &Collection{
		client:   c,
		baseURL:  baseURL,
		item:     item,
		params:   cloneValues(params),
		pageSize: constants.DefaultPageSize,
		slots:    make(map[int]slot),
	}
}

// BaseURL returns the list endpoint without pagination parameters.
func (c *Collection) BaseURL() string {
	return c.baseURL
}

// Item returns the schema of the collection's entities.
func (c *Collection) Item() *Schema {
	return c.item
}

// PageSize returns the number of items requested per page.
func (c *Collection) PageSize() int {
	return c.pageSize
}

// SetPageSize changes the page size for later requests. Pages already
// loaded keep their positions.
func (c *Collection) SetPageSize(size int) error {
	if size < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
	}

	c.pageSize = size

	return nil
}

// PageCount returns the last known number of pages.
func (c *Collection) PageCount() (int, bool) {
	return derefInt(c.pageCount)
}

// Load fetches one page and stores its items at their absolute positions.
// Pages below 1 are treated as page 1.
func (c *Collection) Load(ctx context.Context, page int) (*Collection, error) {
	if page < 1 {
		page = 1
	}

	data, err := c.client.RequestJSON(ctx, http.MethodGet, c.pageURL(page, c.pageSize), nil)
	if err != nil {
		return nil, fmt.Errorf("loading page %d of %s: %w", page, c.baseURL, err)
	}

	link, _ := c.client.ResponseHeader(constants.HeaderLink)

	count, err := lastPage(link)
	if err != nil {
		return nil, err
	}

	c.pageCount = &count

	if data == nil {
		c.complete = c.complete || page == count

		return c, nil
	}

	items, ok := data.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s returned %T", ErrInvalidCollectionData, c.baseURL, data)
	}

	start := (page - 1) * c.pageSize

	for i, raw := range items {
		// Materialized entities keep their identity across reloads.
		if c.slots[start+i].state == slotEntity {
			continue
		}

		c.slots[start+i] = slot{state: slotRaw, raw: raw}
	}

	c.size = max(c.size, start+len(items))
	c.complete = c.complete || page == count

	return c, nil
}

// Count returns the total number of items. It probes the API with a single
// HEAD request when the loaded pages cannot prove the total. Once the last
// page has been loaded, including the single page of an empty list, no
// further requests are made.
func (c *Collection) Count(ctx context.Context) (int, error) {
	if c.complete || (c.pageCount != nil && c.size >= (*c.pageCount-1)*c.pageSize+1) {
		return c.size, nil
	}

	_, err := c.client.Request(ctx, http.MethodHead, c.pageURL(1, constants.ProbePageSize), nil)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", c.baseURL, err)
	}

	link, ok := c.client.ResponseHeader(constants.HeaderLink)
	if !ok {
		// With one item per page a missing Link header means zero or one
		// item, which only a real page can tell apart.
		_, err = c.Load(ctx, 1)
		if err != nil {
			return 0, err
		}

		return c.size, nil
	}

	total, err := lastPage(link)
	if err != nil {
		return 0, err
	}

	c.size = max(c.size, total)
	pages := (total + c.pageSize - 1) / c.pageSize
	c.pageCount = &pages

	return c.size, nil
}

// Contains reports whether index is within the collection.
func (c *Collection) Contains(ctx context.Context, index int) (bool, error) {
	if index < 0 {
		return false, nil
	}

	count, err := c.Count(ctx)
	if err != nil {
		return false, err
	}

	return index < count, nil
}

// Get returns the entity at index, loading its page if needed. Repeated
// calls return the same *Entity.
func (c *Collection) Get(ctx context.Context, index int) (*Entity, error) {
	ok, err := c.Contains(ctx, index)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	s := c.slots[index]

	if s.state == slotEmpty {
		_, err = c.Load(ctx, index/c.pageSize+1)
		if err != nil {
			return nil, err
		}

		s = c.slots[index]
		if s.state == slotEmpty {
			return nil, fmt.Errorf("%w: %d not returned by %s", ErrIndexOutOfRange, index, c.baseURL)
		}
	}

	if s.state == slotEntity {
		return s.entity, nil
	}

	entity, err := c.client.NewEntity(c.item, s.raw)
	if err != nil {
		return nil, fmt.Errorf("item %d of %s: %w", index, c.baseURL, err)
	}

	c.slots[index] = slot{state: slotEntity, entity: entity}

	return entity, nil
}

// Set always fails: collections are read-only.
func (c *Collection) Set(index int, _ *Entity) error {
	return fmt.Errorf("%w: cannot set index %d", ErrReadOnlyCollection, index)
}

// Unset always fails: collections are read-only.
func (c *Collection) Unset(index int) error {
	return fmt.Errorf("%w: cannot unset index %d", ErrReadOnlyCollection, index)
}

// All returns a traversal of every item in index order. Each call starts
// again from index 0. Iteration stops after the first error.
func (c *Collection) All(ctx context.Context) iter.Seq2[*Entity, error] {
	return func(yield func(*Entity, error) bool) {
		it := c.Iterator(ctx)

		for it.HasNext() {
			entity, err := it.Next()
			if !yield(entity, err) || err != nil {
				return
			}
		}

		if err := it.Err(); err != nil {
			yield(nil, err)
		}
	}
}

func (c *Collection) pageURL(page, perPage int) string {
	query := cloneValues(c.params)
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}

	return c.baseURL + sep + query.Encode()
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for key, v := range values {
		out[key] = append([]string(nil), v...)
	}

	return out
}
