package carrier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seacargos-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*ONEClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewONEClient(server.URL, 5*time.Second, logger.NewNop()).(*ONEClient)
	return client, server
}

func TestFetchContainerBuildsLookupQuery(t *testing.T) {
	var query map[string]string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for key := range r.URL.Query() {
			query[key] = r.URL.Query().Get(key)
		}
		w.Write([]byte(`{"list":[{"bkgNo":"OSAB67971900","cntrNo":"TCKU1111111","hashColumns":"abc123"}]}`))
	})
	defer server.Close()

	container, err := client.FetchContainer(context.Background(), "OSAB67971900")
	require.NoError(t, err)
	require.NotNil(t, container)

	assert.Equal(t, "121", query["f_cmd"])
	assert.Equal(t, "A", query["search_type"])
	assert.Equal(t, "OSAB67971900", query["search_name"])
	assert.Equal(t, "10000", query["rows"])
	assert.NotEmpty(t, query["nd"])

	assert.Equal(t, "TCKU1111111", container["cntrNo"])
	assert.NotContains(t, container, "hashColumns")
}

func TestFetchScheduleBuildsLookupQuery(t *testing.T) {
	var query map[string]string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for key := range r.URL.Query() {
			query[key] = r.URL.Query().Get(key)
		}
		w.Write([]byte(`{"list":[{"no":1,"statusNm":"Departure","hashColumns":"abc123"},{"no":2,"statusNm":"Arrival"}]}`))
	})
	defer server.Close()

	events, err := client.FetchSchedule(context.Background(), "", "OSAB67971900", "COP123456")
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "125", query["f_cmd"])
	assert.Equal(t, "", query["cntr_no"])
	assert.Equal(t, "OSAB67971900", query["bkg_no"])
	assert.Equal(t, "COP123456", query["cop_no"])

	assert.NotContains(t, events[0], "hashColumns")
	assert.Equal(t, "Arrival", events[1]["statusNm"])
}

func TestFetchContainerEmptyList(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"list":[]}`))
	})
	defer server.Close()

	container, err := client.FetchContainer(context.Background(), "OSAB67971900")
	require.NoError(t, err)
	assert.Nil(t, container)
}

func TestFetchContainerMissingList(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"not found"}`))
	})
	defer server.Close()

	container, err := client.FetchContainer(context.Background(), "OSAB67971900")
	require.NoError(t, err)
	assert.Nil(t, container)
}

func TestFetchContainerServerError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	container, err := client.FetchContainer(context.Background(), "OSAB67971900")
	require.NoError(t, err)
	assert.Nil(t, container)
}

func TestFetchScheduleMalformedResponse(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	})
	defer server.Close()

	events, err := client.FetchSchedule(context.Background(), "TCKU1111111", "", "")
	require.NoError(t, err)
	assert.Nil(t, events)
}

func TestFetchScheduleUnreachableSite(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	events, err := client.FetchSchedule(context.Background(), "TCKU1111111", "", "")
	require.NoError(t, err)
	assert.Nil(t, events)
}
