package service

import (
	"context"
	"io"
	"sync"

	"github.com/alimikegami/pos-microservices/catalog-service/internal/domain"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/dto"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/search"
	pkgdto "github.com/alimikegami/pos-microservices/catalog-service/pkg/dto"
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/errs"
	"github.com/segmentio/kafka-go"
)

type fakeProductRepository struct {
	products map[int64]domain.Product
	nextID   int64
	requests [][]int64
	deleted  []int64
	updated  []domain.Product
}

func newFakeProductRepository(products ...domain.Product) *fakeProductRepository {
	repo := &fakeProductRepository{products: make(map[int64]domain.Product), nextID: 100}
	for _, product := range products {
		repo.products[product.ID] = product
	}

	return repo
}

func (r *fakeProductRepository) GetProducts(ctx context.Context, filter pkgdto.Filter) ([]domain.Product, error) {
	var data []domain.Product
	for _, product := range r.products {
		data = append(data, product)
	}

	return data, nil
}

func (r *fakeProductRepository) CountProducts(ctx context.Context, filter pkgdto.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *fakeProductRepository) GetProductByID(ctx context.Context, id int64) (domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return domain.Product{}, errs.ErrProductNotFound
	}

	return product, nil
}

// GetProductsByIDs answers in ascending id order, like an unordered IN query would.
func (r *fakeProductRepository) GetProductsByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	r.requests = append(r.requests, ids)

	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var data []domain.Product
	for id := int64(0); id <= r.nextID; id++ {
		if product, ok := r.products[id]; ok && wanted[id] {
			data = append(data, product)
		}
	}

	return data, nil
}

func (r *fakeProductRepository) AddProduct(ctx context.Context, data domain.Product) (int64, error) {
	r.nextID++
	data.ID = r.nextID
	r.products[data.ID] = data

	return data.ID, nil
}

func (r *fakeProductRepository) UpdateProduct(ctx context.Context, data domain.Product) error {
	if _, ok := r.products[data.ID]; !ok {
		return errs.ErrProductNotFound
	}
	r.products[data.ID] = data
	r.updated = append(r.updated, data)

	return nil
}

func (r *fakeProductRepository) DeleteProduct(ctx context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return errs.ErrProductNotFound
	}
	delete(r.products, id)
	r.deleted = append(r.deleted, id)

	return nil
}

type fakeCategoryRepository struct {
	categories map[int64]domain.Category
}

func newFakeCategoryRepository(categories ...domain.Category) *fakeCategoryRepository {
	repo := &fakeCategoryRepository{categories: make(map[int64]domain.Category)}
	for _, category := range categories {
		repo.categories[category.ID] = category
	}

	return repo
}

func (r *fakeCategoryRepository) GetCategoryByID(ctx context.Context, id int64) (domain.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return domain.Category{}, errs.ErrCategoryNotFound
	}

	return category, nil
}

func (r *fakeCategoryRepository) GetCategoriesByIDs(ctx context.Context, ids []int64) ([]domain.Category, error) {
	var data []domain.Category
	for _, id := range ids {
		if category, ok := r.categories[id]; ok {
			data = append(data, category)
		}
	}

	return data, nil
}

type favoriteKey struct {
	userID    int64
	productID int64
}

type fakeFavoriteRepository struct {
	edges map[favoriteKey]bool
}

func newFakeFavoriteRepository() *fakeFavoriteRepository {
	return &fakeFavoriteRepository{edges: make(map[favoriteKey]bool)}
}

func (r *fakeFavoriteRepository) IsFavorited(ctx context.Context, userID, productID int64) (bool, error) {
	return r.edges[favoriteKey{userID, productID}], nil
}

func (r *fakeFavoriteRepository) AddFavorite(ctx context.Context, userID, productID int64) error {
	key := favoriteKey{userID, productID}
	if r.edges[key] {
		return errs.ErrAlreadyFavorited
	}
	r.edges[key] = true

	return nil
}

func (r *fakeFavoriteRepository) DeleteFavorite(ctx context.Context, userID, productID int64) error {
	key := favoriteKey{userID, productID}
	if !r.edges[key] {
		return errs.ErrNotFavorited
	}
	delete(r.edges, key)

	return nil
}

func (r *fakeFavoriteRepository) GetFavoriteProducts(ctx context.Context, userID int64, filter pkgdto.Filter) ([]domain.Product, error) {
	var data []domain.Product
	for key := range r.edges {
		if key.userID == userID {
			data = append(data, domain.Product{ID: key.productID})
		}
	}

	return data, nil
}

func (r *fakeFavoriteRepository) CountFavoriteProducts(ctx context.Context, userID int64) (int64, error) {
	var count int64
	for key := range r.edges {
		if key.userID == userID {
			count++
		}
	}

	return count, nil
}

type fakeSearchRepository struct {
	result  search.Result
	err     error
	queries []search.Query
	indexed []dto.SearchDocument
	deleted []int64

	// indexErrs fail the next IndexProduct calls in order, then indexErr
	// fails every later one.
	indexErrs     []error
	indexErr      error
	indexAttempts int
}

func (r *fakeSearchRepository) SearchProducts(ctx context.Context, query search.Query) (search.Result, error) {
	r.queries = append(r.queries, query)

	return r.result, r.err
}

func (r *fakeSearchRepository) IndexProduct(ctx context.Context, doc dto.SearchDocument) error {
	r.indexAttempts++

	if len(r.indexErrs) > 0 {
		err := r.indexErrs[0]
		r.indexErrs = r.indexErrs[1:]
		return err
	}
	if r.indexErr != nil {
		return r.indexErr
	}

	r.indexed = append(r.indexed, doc)

	return nil
}

func (r *fakeSearchRepository) DeleteProduct(ctx context.Context, id int64) error {
	r.deleted = append(r.deleted, id)

	return nil
}

func (r *fakeSearchRepository) EnsureIndex(ctx context.Context) error {
	return nil
}

type publishedEvent struct {
	key string
	msg dto.KafkaMessage
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, key string, msg dto.KafkaMessage) error {
	p.events = append(p.events, publishedEvent{key: key, msg: msg})

	return p.err
}

// fakeReader hands out the queued messages, then reports end of stream.
type fakeReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []int64
}

// queue appends messages, numbering their offsets in arrival order.
func (r *fakeReader) queue(msgs ...kafka.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, msg := range msgs {
		msg.Offset = int64(len(r.messages) + len(r.committed))
		r.messages = append(r.messages, msg)
	}
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.messages) == 0 {
		return kafka.Message{}, io.EOF
	}

	msg := r.messages[0]
	r.messages = r.messages[1:]

	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, msg := range msgs {
		r.committed = append(r.committed, msg.Offset)
	}

	return nil
}
