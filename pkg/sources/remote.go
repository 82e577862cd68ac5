package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"parliament-search/pkg/httpclient"
)

// DefaultBaseURL is the Riksdagen open-data host.
const DefaultBaseURL = "https://data.riksdagen.se"

// ListQuery parameterizes the speech-list endpoint.
type ListQuery struct {
	DateFrom  string // YYYY-MM-DD, inclusive
	DateTo    string // YYYY-MM-DD, inclusive
	PageSize  int    // maximum entries returned in one document
	Type      string // speech-type filter, e.g. "Anförande"
	SortField string // e.g. "datum"
	SortOrder string // "asc" or "desc"
}

// URL builds the list-endpoint URL for the query.
func (q ListQuery) URL(base string) string {
	v := url.Values{}
	v.Set("dfr", q.DateFrom)
	v.Set("dto", q.DateTo)
	v.Set("sz", strconv.Itoa(q.PageSize))
	if q.Type != "" {
		v.Set("anftyp", q.Type)
	}
	v.Set("utformat", "xml")
	if q.SortField != "" {
		v.Set("sort", q.SortField)
	}
	if q.SortOrder != "" {
		v.Set("sortorder", q.SortOrder)
	}
	return fmt.Sprintf("%s/anforandelista/?%s", base, v.Encode())
}

// Remote fetches the list and per-speech detail documents. Detail fetches
// are rate limited so a large backfill does not hammer the API.
type Remote struct {
	client  *httpclient.Client
	limiter *rate.Limiter
	baseURL string
}

// NewRemote creates a remote connector. perSecond bounds the detail-fetch
// rate; zero or negative disables limiting.
func NewRemote(client *httpclient.Client, baseURL string, perSecond float64) *Remote {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if perSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return &Remote{client: client, limiter: limiter, baseURL: baseURL}
}

// SpeechList fetches one page of speech metadata for the query window.
func (r *Remote) SpeechList(ctx context.Context, q ListQuery) ([]byte, error) {
	return r.client.Get(ctx, q.URL(r.baseURL))
}

// SpeechText fetches the leaf XML document containing one speech's full
// text. Callers check the store first; this is the costly second round trip.
func (r *Remote) SpeechText(ctx context.Context, detailURL string) ([]byte, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.client.Get(ctx, detailURL)
}
