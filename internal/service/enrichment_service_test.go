package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"ai-trendboard-be/internal/dto"
	"ai-trendboard-be/internal/pkg/logger"
	"ai-trendboard-be/internal/repository/memory"
	"ai-trendboard-be/pkg/llm"
	"ai-trendboard-be/pkg/store"
	"ai-trendboard-be/pkg/table"

	"github.com/stretchr/testify/assert"
)

// --- test doubles ---

type fakeProvider struct {
	// image URLs whose chat call should fail
	failOn map[string]bool
	// fixed reply for plain chat
	chatReply string
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	last := history[len(history)-1]
	if last.ImageURL != "" {
		if f.failOn[last.ImageURL] {
			return "", errors.New("service unavailable")
		}
		return "description of " + last.ImageURL, nil
	}
	if f.chatReply != "" {
		return f.chatReply, nil
	}
	return "summary: " + last.Content, nil
}

func (f *fakeProvider) GenerateImage(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return "https://img.example/" + prompt, nil
}

type fakePublisher struct {
	payloads [][]byte
}

func (f *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	f.payloads = append(f.payloads, payload)
	return nil
}

type fakeProgress struct {
	fraction float64
}

func (f *fakeProgress) Consume(ctx context.Context) error { return nil }
func (f *fakeProgress) Fraction(string) float64           { return f.fraction }

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

var _ logger.ILogger = nopLogger{}

func seedSession(repo *memory.SessionRepository, t *table.Table) *store.Session {
	session := &store.Session{
		ID:            "sess-1",
		Authenticated: true,
		APIKey:        "sk-test",
		Table:         t,
		CreatedAt:     time.Now(),
	}
	repo.Save(session)
	return session
}

func productTable(rows int) *table.Table {
	t := table.New([]string{
		table.ColCategory, table.ColCategoryRank, table.ColPrice,
		table.ColRating, table.ColSalesVolume, table.ColProductName,
		table.ColProductURL, table.ColImageURL, table.ColYear,
	})
	for i := 0; i < rows; i++ {
		category := "Garden"
		if i%2 == 1 {
			category = "Kitchen"
		}
		t.AppendRow([]string{
			category,
			fmt.Sprintf("%d", i/2+1),
			"9.99", "4.5", "120",
			fmt.Sprintf("Product-%d", i),
			fmt.Sprintf("https://shop/p/%d", i),
			fmt.Sprintf("https://img/%d", i),
			"2023",
		})
	}
	return t
}

func newEnrichmentFixture(rows int, provider llm.Provider) (IEnrichmentService, *memory.SessionRepository, *store.Session, *fakePublisher) {
	repo := memory.NewSessionRepository()
	session := seedSession(repo, productTable(rows))
	pub := &fakePublisher{}
	svc := NewEnrichmentService(repo, provider, pub, &fakeProgress{}, nopLogger{}, 4)
	return svc, repo, session, pub
}

// --- tests ---

func TestEnrichmentRunWritesDescriptions(t *testing.T) {
	svc, _, session, _ := newEnrichmentFixture(6, &fakeProvider{})

	res, err := svc.Run(context.Background(), session.ID, &dto.RunEnrichmentRequest{})
	assert.NoError(t, err)
	assert.Equal(t, 6, res.Selected)
	assert.Equal(t, 6, res.Enriched)
	assert.Empty(t, res.Failed)

	for i := 0; i < session.Table.Len(); i++ {
		want := "description of " + session.Table.Get(i, table.ColImageURL)
		assert.Equal(t, want, session.Table.Get(i, table.ColDescription))
	}
	assert.Equal(t, 1.0, session.Progress)
}

func TestEnrichmentRunOnlyTouchesSelectedRows(t *testing.T) {
	svc, _, session, _ := newEnrichmentFixture(6, &fakeProvider{})

	// rank filter keeps ranks 1 (rows 0 and 1); snapshot the rest
	before := session.Table.Clone()

	_, err := svc.Run(context.Background(), session.ID, &dto.RunEnrichmentRequest{TopRank: 1})
	assert.NoError(t, err)

	descCol := session.Table.ColumnIndex(table.ColDescription)
	for i := 0; i < session.Table.Len(); i++ {
		selected := i == 0 || i == 1
		for c, col := range session.Table.Columns {
			if c == descCol {
				if selected {
					assert.NotEmpty(t, session.Table.Rows[i][c], "row %d should be enriched", i)
				} else {
					assert.Empty(t, session.Table.Rows[i][c], "row %d must stay untouched", i)
				}
				continue
			}
			// every other cell bit-identical
			assert.Equal(t, before.Get(i, col), session.Table.Rows[i][c], "row %d col %s", i, col)
		}
	}
}

func TestEnrichmentRunIsolatesFailures(t *testing.T) {
	provider := &fakeProvider{failOn: map[string]bool{"https://img/2": true}}
	svc, _, session, _ := newEnrichmentFixture(4, provider)

	res, err := svc.Run(context.Background(), session.ID, &dto.RunEnrichmentRequest{})
	assert.NoError(t, err)
	assert.Equal(t, 4, res.Selected)
	assert.Equal(t, 3, res.Enriched)
	assert.Len(t, res.Failed, 1)
	assert.Equal(t, 2, res.Failed[0].Row)

	// The failed row keeps its empty description
	assert.Empty(t, session.Table.Get(2, table.ColDescription))
	assert.NotEmpty(t, session.Table.Get(1, table.ColDescription))
}

func TestEnrichmentRunPublishesProgressPerUnit(t *testing.T) {
	svc, _, session, pub := newEnrichmentFixture(5, &fakeProvider{})

	_, err := svc.Run(context.Background(), session.ID, &dto.RunEnrichmentRequest{})
	assert.NoError(t, err)
	assert.Len(t, pub.payloads, 5)
}

func TestEnrichmentRunRerunOverwrites(t *testing.T) {
	svc, _, session, _ := newEnrichmentFixture(3, &fakeProvider{})

	_, err := svc.Run(context.Background(), session.ID, &dto.RunEnrichmentRequest{})
	assert.NoError(t, err)
	first := session.Table.Clone()

	// Last-writer-wins on re-run
	_, err = svc.Run(context.Background(), session.ID, &dto.RunEnrichmentRequest{})
	assert.NoError(t, err)
	assert.True(t, reflect.DeepEqual(first.Rows, session.Table.Rows))
}

func TestEnrichmentRunPreconditions(t *testing.T) {
	repo := memory.NewSessionRepository()
	svc := NewEnrichmentService(repo, &fakeProvider{}, &fakePublisher{}, &fakeProgress{}, nopLogger{}, 4)

	_, err := svc.Run(context.Background(), "missing", &dto.RunEnrichmentRequest{})
	assert.ErrorIs(t, err, dto.ErrSessionNotFound)

	session := &store.Session{ID: "s2", Authenticated: true, APIKey: "sk-x"}
	repo.Save(session)
	_, err = svc.Run(context.Background(), "s2", &dto.RunEnrichmentRequest{})
	assert.ErrorIs(t, err, dto.ErrNoTable)

	session.Table = productTable(1)
	session.APIKey = ""
	repo.Save(session)
	_, err = svc.Run(context.Background(), "s2", &dto.RunEnrichmentRequest{})
	assert.ErrorIs(t, err, dto.ErrNoAPIKey)
}

func TestEnrichmentProgressEndpoint(t *testing.T) {
	repo := memory.NewSessionRepository()
	session := seedSession(repo, productTable(1))
	svc := NewEnrichmentService(repo, &fakeProvider{}, &fakePublisher{}, &fakeProgress{fraction: 0.4}, nopLogger{}, 4)

	res, err := svc.Progress(context.Background(), session.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0.4, res.Fraction)
}
