// Package fetch downloads plenary session transcripts from the Chamber
// of Deputies and Senate stenography services and flattens them to
// plain text.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/parlagraph/parlagraph/internal/util"
)

// Source selects which house a session code refers to.
type Source string

const (
	SourceChamber Source = "camara"
	SourceSenate  Source = "senado"
)

const (
	defaultChamberBaseURL = "https://escriba.camara.leg.br/escriba-servicosweb/html"
	defaultSenateBaseURL  = "https://www25.senado.leg.br/web/atividade/notas-taquigraficas/-/notas/s"

	// The stenography services answer plain library user agents with
	// 403, so requests identify as a desktop browser.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Fetcher retrieves and flattens session transcripts. Requests are rate
// limited and retried with backoff.
type Fetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int

	chamberBaseURL string
	senateBaseURL  string
}

// NewFetcherParams configures a Fetcher. Zero values fall back to a
// 30s timeout, 1 request/s and 3 attempts.
type NewFetcherParams struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	MaxRetries        int

	ChamberBaseURL string
	SenateBaseURL  string
}

// NewFetcher creates a Fetcher.
func NewFetcher(params NewFetcherParams) *Fetcher {
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := params.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	chamberBaseURL := params.ChamberBaseURL
	if chamberBaseURL == "" {
		chamberBaseURL = defaultChamberBaseURL
	}
	senateBaseURL := params.SenateBaseURL
	if senateBaseURL == "" {
		senateBaseURL = defaultSenateBaseURL
	}
	return &Fetcher{
		httpClient:     &http.Client{Timeout: timeout},
		limiter:        rate.NewLimiter(rate.Limit(rps), 1),
		maxRetries:     maxRetries,
		chamberBaseURL: chamberBaseURL,
		senateBaseURL:  senateBaseURL,
	}
}

// Session downloads one session transcript and returns its plain text.
func (f *Fetcher) Session(ctx context.Context, src Source, code int) (string, error) {
	var url, tableSelector string
	switch src {
	case SourceChamber:
		url = fmt.Sprintf("%s/%d", f.chamberBaseURL, code)
		tableSelector = "table"
	case SourceSenate:
		url = fmt.Sprintf("%s/%d", f.senateBaseURL, code)
		tableSelector = "table#tabelaQuartos"
	default:
		return "", fmt.Errorf("unknown source %q", src)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}

	return util.RetryWithBackoff(
		ctx,
		f.maxRetries,
		2*time.Second,
		func(ctx context.Context) (string, error) {
			return f.fetchAndFlatten(ctx, url, tableSelector)
		},
	)
}

func (f *Fetcher) fetchAndFlatten(
	ctx context.Context,
	url string,
	tableSelector string,
) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}
	return flattenTranscript(doc, tableSelector)
}

// flattenTranscript walks the transcript table's quarto blocks. Each
// bold speaker introduction starts a new line, then the block's span
// texts are appended verbatim.
func flattenTranscript(doc *goquery.Document, tableSelector string) (string, error) {
	table := doc.Find(tableSelector).First()
	if table.Length() == 0 {
		return "", fmt.Errorf("transcript table %q not found", tableSelector)
	}

	var b strings.Builder
	table.Find("div.principalStyle").Each(func(_ int, quarto *goquery.Selection) {
		quarto.Find("b").Each(func(_ int, bold *goquery.Selection) {
			if isSpeakerIntro(strings.TrimSpace(bold.Text())) {
				b.WriteString("\n")
			}
		})
		quarto.Find("span").Each(func(_ int, span *goquery.Selection) {
			b.WriteString(span.Text())
		})
	})
	return b.String(), nil
}

func isSpeakerIntro(text string) bool {
	return strings.HasPrefix(text, "O SR.") || strings.HasPrefix(text, "A SRA.")
}
