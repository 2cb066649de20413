package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/alimikegami/pos-microservices/catalog-service/internal/dto"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/search"
	pkgdto "github.com/alimikegami/pos-microservices/catalog-service/pkg/dto"
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/errs"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

// productIndexMapping keeps nested SKU and property text searchable through
// the flat copy_to fields the keyword query targets.
const productIndexMapping = `{
  "mappings": {
    "properties": {
      "id":            {"type": "long"},
      "title":         {"type": "text"},
      "long_title":    {"type": "text"},
      "description":   {"type": "text"},
      "on_sale":       {"type": "boolean"},
      "sold_count":    {"type": "long"},
      "rating":        {"type": "float"},
      "price":         {"type": "scaled_float", "scaling_factor": 100},
      "category_id":   {"type": "long"},
      "category":      {"type": "text"},
      "category_path": {"type": "keyword"},
      "skus_title":       {"type": "text"},
      "skus_description": {"type": "text"},
      "properties_value": {"type": "text"},
      "skus": {
        "type": "nested",
        "properties": {
          "title":       {"type": "text", "copy_to": "skus_title"},
          "description": {"type": "text", "copy_to": "skus_description"},
          "price":       {"type": "scaled_float", "scaling_factor": 100}
        }
      },
      "properties": {
        "type": "nested",
        "properties": {
          "name":  {"type": "keyword"},
          "value": {"type": "keyword", "copy_to": "properties_value"}
        }
      }
    }
  }
}`

// responseError classifies a failed response. 4xx other than 429 means the
// request itself was refused.
func responseError(res *esapi.Response) error {
	if res.StatusCode < http.StatusInternalServerError && res.StatusCode != http.StatusTooManyRequests {
		return fmt.Errorf("%w: search responded with %s", errs.ErrRejected, res.Status())
	}

	return fmt.Errorf("%w: search responded with %s", errs.ErrSearchUnavailable, res.Status())
}

type ElasticSearchProductRepositoryImpl struct {
	client  *elasticsearch.Client
	index   string
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func CreateNewElasticSearchRepository(client *elasticsearch.Client, index string, breaker *gobreaker.CircuitBreaker[[]byte]) ElasticSearchProductRepository {
	return &ElasticSearchProductRepositoryImpl{client: client, index: index, breaker: breaker}
}

// SearchProducts runs the query through the circuit breaker and returns hit
// ids in rank order. Any failure, including an open breaker, is reported as
// ErrSearchUnavailable. Refused requests do not count against the breaker.
func (r *ElasticSearchProductRepositoryImpl) SearchProducts(ctx context.Context, query search.Query) (result search.Result, err error) {
	requestPayload, err := json.Marshal(query)
	if err != nil {
		return result, err
	}

	responseBody, err := r.breaker.Execute(func() ([]byte, error) {
		res, err := r.client.Search(
			r.client.Search.WithContext(ctx),
			r.client.Search.WithIndex(r.index),
			r.client.Search.WithBody(bytes.NewReader(requestPayload)),
			r.client.Search.WithTrackTotalHits(true),
		)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%w: %v", ctxErr, err)
			}
			return nil, err
		}
		defer res.Body.Close()

		body, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, err
		}

		if res.IsError() {
			return nil, responseError(res)
		}

		return body, nil
	})
	if err != nil {
		log.Error().Err(err).Str("component", "SearchProducts").Msg("")
		return result, fmt.Errorf("%w: %v", errs.ErrSearchUnavailable, err)
	}

	var parsedResponseBody pkgdto.ElasticsearchResponse
	err = json.Unmarshal(responseBody, &parsedResponseBody)
	if err != nil {
		log.Error().Err(err).Str("component", "SearchProducts").Msg("")
		return result, fmt.Errorf("%w: %v", errs.ErrSearchUnavailable, err)
	}

	result.Total = parsedResponseBody.Hits.Total.Value
	result.IDs = make([]int64, 0, len(parsedResponseBody.Hits.Hits))
	for _, hit := range parsedResponseBody.Hits.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			log.Warn().Str("component", "SearchProducts").Str("id", hit.ID).Msg("skipping hit with non-numeric id")
			continue
		}
		result.IDs = append(result.IDs, id)
	}

	return result, nil
}

// IndexProduct writes the whole document under the product id, replacing
// any previous version.
func (r *ElasticSearchProductRepositoryImpl) IndexProduct(ctx context.Context, doc dto.SearchDocument) (err error) {
	requestPayload, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	res, err := r.client.Index(
		r.index,
		bytes.NewReader(requestPayload),
		r.client.Index.WithContext(ctx),
		r.client.Index.WithDocumentID(strconv.FormatInt(doc.ID, 10)),
	)
	if err != nil {
		log.Error().Err(err).Str("component", "IndexProduct").Msg("")
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Error().Str("component", "IndexProduct").Msg(res.String())
		return responseError(res)
	}

	return nil
}

func (r *ElasticSearchProductRepositoryImpl) DeleteProduct(ctx context.Context, id int64) (err error) {
	res, err := r.client.Delete(
		r.index,
		strconv.FormatInt(id, 10),
		r.client.Delete.WithContext(ctx),
	)
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return err
	}
	defer res.Body.Close()

	// already gone
	if res.StatusCode == http.StatusNotFound {
		return nil
	}

	if res.IsError() {
		log.Error().Str("component", "DeleteProduct").Msg(res.String())
		return responseError(res)
	}

	return nil
}

// EnsureIndex creates the product index with its mapping when missing.
func (r *ElasticSearchProductRepositoryImpl) EnsureIndex(ctx context.Context) (err error) {
	res, err := r.client.Indices.Exists([]string{r.index}, r.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		log.Error().Err(err).Str("component", "EnsureIndex").Msg("")
		return err
	}
	res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	var createRes *esapi.Response
	createRes, err = r.client.Indices.Create(
		r.index,
		r.client.Indices.Create.WithContext(ctx),
		r.client.Indices.Create.WithBody(bytes.NewReader([]byte(productIndexMapping))),
	)
	if err != nil {
		log.Error().Err(err).Str("component", "EnsureIndex").Msg("")
		return err
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		log.Error().Str("component", "EnsureIndex").Msg(createRes.String())
		return errs.ErrInternalServer
	}

	log.Info().Str("component", "EnsureIndex").Str("index", r.index).Msg("created search index")

	return nil
}
