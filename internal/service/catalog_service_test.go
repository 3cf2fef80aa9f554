package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ai-trendboard-be/internal/dto"
	"ai-trendboard-be/internal/repository/memory"
	"ai-trendboard-be/pkg/spreadsheet"
	"ai-trendboard-be/pkg/store"
	"ai-trendboard-be/pkg/table"

	"github.com/stretchr/testify/assert"
)

const validCSV = `Category,Category Rank,Price,Rating,Sales Volume,Product Name,Product URL,Image URL,Year
Garden,1,19.99,4.7,340,Planter,https://shop/p/1,https://img/1,"2.023"
Kitchen,2,9.50,4.1,120,Whisk,https://shop/p/2,https://img/2,2023
`

func newCatalogFixture() (ICatalogService, *memory.SessionRepository, *store.Session) {
	repo := memory.NewSessionRepository()
	session := &store.Session{ID: "sess-cat", Authenticated: true, CreatedAt: time.Now()}
	repo.Save(session)
	return NewCatalogService(repo, nopLogger{}), repo, session
}

func TestUploadTabularAccepted(t *testing.T) {
	svc, _, session := newCatalogFixture()

	res, err := svc.UploadTabular(context.Background(), session.ID, "products.csv", strings.NewReader(validCSV))
	assert.NoError(t, err)
	assert.Equal(t, 2, res.RowCount)
	assert.Equal(t, "products.csv", res.FileName)

	// thousands separator stripped from the year
	assert.Equal(t, "2023", session.Table.Get(0, table.ColYear))
	assert.Equal(t, []string{"products.csv"}, session.StagedUploads)
}

func TestUploadTabularMissingColumns(t *testing.T) {
	svc, _, session := newCatalogFixture()

	csv := "Category,Price\nGarden,9.99\n"
	_, err := svc.UploadTabular(context.Background(), session.ID, "bad.csv", strings.NewReader(csv))

	var ue *dto.UploadError
	assert.ErrorAs(t, err, &ue)
	assert.Contains(t, ue.Reason, "missing required columns")
	assert.Nil(t, session.Table, "a rejected upload must not leave a partial table")
}

func TestUploadTabularBadYearAborts(t *testing.T) {
	svc, _, session := newCatalogFixture()

	csv := strings.Replace(validCSV, `"2.023"`, "soon", 1)
	_, err := svc.UploadTabular(context.Background(), session.ID, "bad.csv", strings.NewReader(csv))

	var ue *dto.UploadError
	assert.ErrorAs(t, err, &ue)
	assert.Contains(t, ue.Reason, "bad year value")
	assert.Nil(t, session.Table)
}

func TestUploadTabularReplacesWholesale(t *testing.T) {
	svc, _, session := newCatalogFixture()

	_, err := svc.UploadTabular(context.Background(), session.ID, "first.csv", strings.NewReader(validCSV))
	assert.NoError(t, err)

	second := strings.SplitAfterN(validCSV, "\n", 2)
	csv := second[0] + "Garden,1,5.00,3.9,10,Trowel,https://shop/p/3,https://img/3,2022\n"
	res, err := svc.UploadTabular(context.Background(), session.ID, "second.csv", strings.NewReader(csv))
	assert.NoError(t, err)
	assert.Equal(t, 1, res.RowCount)
	assert.Equal(t, "Trowel", session.Table.Get(0, table.ColProductName))
}

func TestUploadLegacyUnimplementedLayout(t *testing.T) {
	svc, _, session := newCatalogFixture()

	_, err := svc.UploadLegacy(context.Background(), session.ID, "old.xml", "price_list", strings.NewReader("<Workbook/>"))
	assert.True(t, errors.Is(err, spreadsheet.ErrNotImplemented), "expected ErrNotImplemented, got %v", err)
}

func TestUploadLegacyUnknownLayout(t *testing.T) {
	svc, _, session := newCatalogFixture()

	_, err := svc.UploadLegacy(context.Background(), session.ID, "old.xml", "nonsense", strings.NewReader("<Workbook/>"))
	var ue *dto.UploadError
	assert.ErrorAs(t, err, &ue)
	assert.Equal(t, "unknown layout", ue.Reason)
}

func TestCatalogGetAndReset(t *testing.T) {
	svc, _, session := newCatalogFixture()

	_, err := svc.Get(context.Background(), session.ID)
	assert.ErrorIs(t, err, dto.ErrNoTable)

	_, err = svc.UploadTabular(context.Background(), session.ID, "products.csv", strings.NewReader(validCSV))
	assert.NoError(t, err)

	res, err := svc.Get(context.Background(), session.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, res.RowCount)

	assert.NoError(t, svc.Reset(context.Background(), session.ID))
	assert.Nil(t, session.Table)
	assert.Nil(t, session.Trends)
	assert.Zero(t, session.Progress)
}

func TestCatalogExportRoundTrips(t *testing.T) {
	svc, _, session := newCatalogFixture()

	_, err := svc.UploadTabular(context.Background(), session.ID, "products.csv", strings.NewReader(validCSV))
	assert.NoError(t, err)

	data, err := svc.ExportCSV(context.Background(), session.ID)
	assert.NoError(t, err)

	decoded, err := table.DecodeCSV(strings.NewReader(string(data)))
	assert.NoError(t, err)
	assert.Equal(t, session.Table.Columns, decoded.Columns)
	assert.Equal(t, session.Table.Rows, decoded.Rows)
}

func TestCatalogSessionMissing(t *testing.T) {
	svc, _, _ := newCatalogFixture()

	_, err := svc.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, dto.ErrSessionNotFound)
	_, err = svc.ExportCSV(context.Background(), "ghost")
	assert.ErrorIs(t, err, dto.ErrSessionNotFound)
	assert.ErrorIs(t, svc.Reset(context.Background(), "ghost"), dto.ErrSessionNotFound)
}
