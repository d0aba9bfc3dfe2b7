package carrier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"seacargos-service/internal/domain/entity"
	"seacargos-service/internal/domain/repository"
	"seacargos-service/pkg/logger"
)

// hashColumns carries an opaque response-verification value and is
// stripped before payloads leave this package.
const hashColumnsKey = "hashColumns"

// ONEClient fetches container and schedule data from the ONE tracking
// endpoint. A non-OK status or a response without a "list" array is a
// normal "no data" outcome, not an error.
type ONEClient struct {
	logger     logger.Logger
	baseURL    string
	httpClient *http.Client
}

// NewONEClient creates a new ONE carrier client
func NewONEClient(baseURL string, timeout time.Duration, logger logger.Logger) repository.CarrierClient {
	return &ONEClient{
		logger:     logger,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type listEnvelope struct {
	List []map[string]any `json:"list"`
}

// FetchContainer looks up container data for a booking or container number
func (c *ONEClient) FetchContainer(ctx context.Context, searchTerm string) (entity.RawContainer, error) {
	params := url.Values{}
	params.Set("_search", "false")
	params.Set("nd", strconv.FormatInt(time.Now().UnixMilli(), 10))
	params.Set("rows", "10000")
	params.Set("page", "1")
	params.Set("sidx", "")
	params.Set("sord", "asc")
	params.Set("f_cmd", "121")
	params.Set("search_type", "A")
	params.Set("search_name", searchTerm)
	params.Set("cust_cd", "")

	list, ok := c.get(ctx, params)
	if !ok || len(list) == 0 {
		c.logger.Warn("Container data is missing", "searchTerm", searchTerm)
		return nil, nil
	}

	container := entity.RawContainer(list[0])
	delete(container, hashColumnsKey)
	return container, nil
}

// FetchSchedule fetches the event timeline for a container. The endpoint
// accepts either the container number or the booking number; the unused
// key is passed empty.
func (c *ONEClient) FetchSchedule(ctx context.Context, cntrNo, bkgNo, copNo string) ([]entity.RawScheduleEvent, error) {
	params := url.Values{}
	params.Set("_search", "false")
	params.Set("f_cmd", "125")
	params.Set("cntr_no", cntrNo)
	params.Set("bkg_no", bkgNo)
	params.Set("cop_no", copNo)

	list, ok := c.get(ctx, params)
	if !ok || len(list) == 0 {
		c.logger.Warn("Schedule data is missing", "cntrNo", cntrNo, "bkgNo", bkgNo)
		return nil, nil
	}

	events := make([]entity.RawScheduleEvent, 0, len(list))
	for _, item := range list {
		events = append(events, entity.RawScheduleEvent(item))
	}
	delete(events[0], hashColumnsKey)
	return events, nil
}

// get performs the request and decodes the "list" envelope. The second
// return value is false whenever the carrier gave no usable data.
func (c *ONEClient) get(ctx context.Context, params url.Values) ([]map[string]any, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		c.logger.Error("Failed to create carrier request", "error", err)
		return nil, false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Carrier site is unreachable", "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Carrier site is unavailable", "status", resp.StatusCode)
		return nil, false
	}

	var envelope listEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		c.logger.Warn("Failed to decode carrier response", "error", err)
		return nil, false
	}
	if envelope.List == nil {
		return nil, false
	}
	return envelope.List, true
}
