package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/berwahousing/records-backend/internal/auth"
	"github.com/berwahousing/records-backend/internal/models"
	"github.com/berwahousing/records-backend/internal/repository"
)

// seedUser inserts a staff account and returns claims for it.
func seedUser(t *testing.T, repo repository.Store) *auth.Claims {
	t.Helper()

	uid, err := repo.CreateUser(context.Background(), &models.User{
		Username:     "secretary1",
		PasswordHash: "x",
		Email:        "sec@example.com",
		Role:         models.RoleSecretary,
	})
	require.NoError(t, err)
	return &auth.Claims{UserID: uid, Username: "secretary1", Role: models.RoleSecretary}
}

func seedClients(t *testing.T, repo repository.Store, names ...string) {
	t.Helper()
	for _, name := range names {
		_, err := repo.CreateClient(context.Background(), &models.Client{
			Name:        name,
			ContactInfo: strings.ToLower(name) + "@example.com",
		})
		require.NoError(t, err)
	}
}

// getAs sends a GET with the given identity attached to the request context,
// the same way the auth middleware would.
func getAs(router *mux.Router, claims *auth.Claims, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if claims != nil {
		req = req.WithContext(auth.WithClaims(req.Context(), claims))
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestGenerateExcelReport(t *testing.T) {
	router, repo := newTestAPI(t)
	claims := seedUser(t, repo)
	seedClients(t, repo, "Acme", "Zenith")

	rr := getAs(router, claims, "/reports/clients/excel")
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rr.Header().Get("Content-Type"))
	disposition := rr.Header().Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(disposition, `attachment; filename="clients-report-`), disposition)
	assert.True(t, strings.HasSuffix(disposition, `.xlsx"`), disposition)

	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Clients")
	require.NoError(t, err)
	require.Len(t, rows, 5) // header + 2 data + blank + summary
	assert.Equal(t, "Acme", rows[1][1])
	assert.Equal(t, "Zenith", rows[2][1])
	assert.Equal(t, "Total Clients:", rows[4][0])
	assert.Equal(t, "2", rows[4][1])

	// A history entry is appended once the document is delivered.
	entries, err := repo.ListReportEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Excel", entries[0].ReportType)
	assert.Equal(t, "Client report with 2 records", entries[0].Details)
	assert.Equal(t, "secretary1", entries[0].Username)
	assert.Equal(t, claims.UserID, entries[0].UserID)
}

func TestGeneratePDFReport(t *testing.T) {
	router, repo := newTestAPI(t)
	claims := seedUser(t, repo)
	seedClients(t, repo, "Acme")

	rr := getAs(router, claims, "/reports/clients/pdf?notes=true")
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")))
	assert.Equal(t, strconv.Itoa(rr.Body.Len()), rr.Header().Get("Content-Length"))

	entries, err := repo.ListReportEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "PDF", entries[0].ReportType)
	assert.Equal(t, "Client report with 1 records", entries[0].Details)
}

func TestGenerateReportUnsupportedFormat(t *testing.T) {
	router, repo := newTestAPI(t)
	claims := seedUser(t, repo)

	rr := getAs(router, claims, "/reports/clients/csv")
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiErr))
	assert.Equal(t, ErrCodeInvalidRequest, apiErr.Code)

	// Nothing was generated, so nothing was logged.
	entries, err := repo.ListReportEntries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateReportRequiresIdentity(t *testing.T) {
	router, _ := newTestAPI(t)

	rr := getAs(router, nil, "/reports/clients/pdf")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGenerateReportEmptyStore(t *testing.T) {
	router, repo := newTestAPI(t)
	claims := seedUser(t, repo)

	rr := getAs(router, claims, "/reports/clients/excel")
	require.Equal(t, http.StatusOK, rr.Code)

	entries, err := repo.ListReportEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Client report with 0 records", entries[0].Details)
}

func TestListReports(t *testing.T) {
	router, repo := newTestAPI(t)
	claims := seedUser(t, repo)

	rr := getAs(router, claims, "/reports")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())

	// Generate twice, newest first in the listing.
	require.Equal(t, http.StatusOK, getAs(router, claims, "/reports/clients/pdf").Code)
	require.Equal(t, http.StatusOK, getAs(router, claims, "/reports/clients/excel").Code)

	rr = getAs(router, claims, "/reports")
	require.Equal(t, http.StatusOK, rr.Code)

	var entries []*models.ReportEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "secretary1", entries[0].Username)
	assert.True(t, entries[0].ID > entries[1].ID, "newest entry first")
}
