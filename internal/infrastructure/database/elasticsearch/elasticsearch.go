package elasticsearch

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/rs/zerolog/log"
)

func CreateElasticsearchClient(host string) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{
			host,
		},
		Transport: http.DefaultTransport,
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		log.Error().Err(err).Str("component", "CreateElasticsearchClient").Msg("error creating Elasticsearch client")
		return nil, err
	}

	res, err := client.Info()
	if err != nil {
		log.Error().Err(err).Str("component", "CreateElasticsearchClient").Msg("error connecting to Elasticsearch")
		return client, err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Warn().Str("component", "CreateElasticsearchClient").Msgf("error response from Elasticsearch: %s", res.String())
	}

	return client, nil
}
