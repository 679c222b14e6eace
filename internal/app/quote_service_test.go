package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-sync/internal/adapters/flags"
	"github.com/jsamuelsen/quote-sync/internal/adapters/storage"
	"github.com/jsamuelsen/quote-sync/internal/adapters/storage/storagetest"
	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/mocks"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

type serviceFixture struct {
	svc      *QuoteService
	store    *QuoteStore
	slots    *storagetest.Slots
	sessions *storage.SessionStore
	remote   *mocks.MockRemoteQuotes
	flags    *flags.Static
}

// newServiceFixture wires a QuoteService over in-memory storage and a mocked remote.
// Every flag is off unless the test turns it on.
func newServiceFixture(t *testing.T, local ...domain.Quote) *serviceFixture {
	t.Helper()

	store, slots := newTestStore(t, local...)
	remote := mocks.NewMockRemoteQuotes(t)
	sessions := storage.NewSessionStore(time.Hour)
	featureFlags := flags.NewStatic(map[string]bool{
		ports.FlagPushOnAdd:       false,
		ports.FlagSyncAfterImport: false,
		ports.FlagPushOnImport:    false,
	})

	syncSvc := NewSyncService(SyncServiceConfig{Store: store, Remote: remote, Logger: discardLogger()})
	t.Cleanup(func() { _ = syncSvc.Stop(context.Background()) })

	svc := NewQuoteService(QuoteServiceConfig{
		Store:      store,
		Repository: storage.NewQuoteRepository(slots),
		Sessions:   sessions,
		Sync:       syncSvc,
		Flags:      featureFlags,
		Logger:     discardLogger(),
	})

	return &serviceFixture{
		svc:      svc,
		store:    store,
		slots:    slots,
		sessions: sessions,
		remote:   remote,
		flags:    featureFlags,
	}
}

func TestNewQuoteService_PanicsWithoutDependencies(t *testing.T) {
	store, slots := newTestStore(t)
	repo := storage.NewQuoteRepository(slots)
	sessions := storage.NewSessionStore(time.Minute)

	assert.Panics(t, func() {
		NewQuoteService(QuoteServiceConfig{Repository: repo, Sessions: sessions})
	})
	assert.Panics(t, func() {
		NewQuoteService(QuoteServiceConfig{Store: store, Sessions: sessions})
	})
	assert.Panics(t, func() {
		NewQuoteService(QuoteServiceConfig{Store: store, Repository: repo})
	})
}

func TestNewQuoteService_DefaultsLogger(t *testing.T) {
	store, slots := newTestStore(t)

	svc := NewQuoteService(QuoteServiceConfig{
		Store:      store,
		Repository: storage.NewQuoteRepository(slots),
		Sessions:   storage.NewSessionStore(time.Minute),
	})

	require.NotNil(t, svc)
	assert.NotNil(t, svc.logger)
}

func TestQuoteService_AddQuote(t *testing.T) {
	f := newServiceFixture(t, q("A", "X"))

	added, err := f.svc.AddQuote(context.Background(), " Be kind. ", " Life ")

	require.NoError(t, err)
	assert.Equal(t, q("Be kind.", "Life"), added)
	assert.Equal(t, 2, f.svc.Count())
}

func TestQuoteService_AddQuote_Validation(t *testing.T) {
	f := newServiceFixture(t, q("A", "X"))

	_, err := f.svc.AddQuote(context.Background(), "", "Life")

	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, 1, f.svc.Count())
}

func TestQuoteService_AddQuote_PushesWhenEnabled(t *testing.T) {
	f := newServiceFixture(t)
	f.flags.Set(ports.FlagPushOnAdd, true)

	pushed := make(chan domain.Quote, 1)
	f.remote.EXPECT().PushQuote(mock.Anything, q("Be kind.", "Life")).
		RunAndReturn(func(_ context.Context, quote domain.Quote) (*ports.PushResult, error) {
			pushed <- quote
			return &ports.PushResult{RemoteID: 101}, nil
		})

	_, err := f.svc.AddQuote(context.Background(), "Be kind.", "Life")
	require.NoError(t, err)

	select {
	case got := <-pushed:
		assert.Equal(t, q("Be kind.", "Life"), got)
	case <-time.After(time.Second):
		t.Fatal("quote was not pushed")
	}
}

func TestQuoteService_AddQuote_PushFailureKeepsQuote(t *testing.T) {
	f := newServiceFixture(t)
	f.flags.Set(ports.FlagPushOnAdd, true)

	done := make(chan struct{})
	f.remote.EXPECT().PushQuote(mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, domain.Quote) (*ports.PushResult, error) {
			defer close(done)
			return nil, domain.NewRemoteError("push", 500, "boom")
		})

	_, err := f.svc.AddQuote(context.Background(), "Be kind.", "Life")
	require.NoError(t, err)

	<-done
	assert.Contains(t, f.store.Snapshot(), q("Be kind.", "Life"))
}

func TestQuoteService_RandomQuote_RecordsLastViewed(t *testing.T) {
	f := newServiceFixture(t, q("Only", "X"))

	got, err := f.svc.RandomQuote(context.Background(), "sess-1", "")
	require.NoError(t, err)
	assert.Equal(t, q("Only", "X"), got)

	last, err := f.svc.LastViewed(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Only", last)

	other, err := f.svc.LastViewed(context.Background(), "sess-2")
	require.NoError(t, err)
	assert.Equal(t, domain.NoQuoteYet, other)
}

func TestQuoteService_RandomQuote_UsesSavedFilter(t *testing.T) {
	f := newServiceFixture(t, q("A", "Work"), q("B", "Life"))

	_, err := f.svc.SetSelectedFilter(context.Background(), "life")
	require.NoError(t, err)

	for range 10 {
		got, err := f.svc.RandomQuote(context.Background(), "", "")
		require.NoError(t, err)
		assert.Equal(t, q("B", "Life"), got)
	}

	got, err := f.svc.RandomQuote(context.Background(), "", "Work")
	require.NoError(t, err)
	assert.Equal(t, q("A", "Work"), got)
}

func TestQuoteService_RandomQuote_EmptyCategory(t *testing.T) {
	f := newServiceFixture(t, q("A", "Work"))

	_, err := f.svc.RandomQuote(context.Background(), "sess-1", "Dreams")

	assert.True(t, domain.IsNotFound(err))

	last, _ := f.svc.LastViewed(context.Background(), "sess-1")
	assert.Equal(t, domain.NoQuoteYet, last)
}

func TestQuoteService_RandomQuote_SessionFailureIsNotFatal(t *testing.T) {
	store, slots := newTestStore(t, q("A", "X"))
	sessions := mocks.NewMockSessionStore(t)
	sessions.EXPECT().RecordLastViewed(mock.Anything, "sess-1", "A").Return(errors.New("gone"))

	svc := NewQuoteService(QuoteServiceConfig{
		Store:      store,
		Repository: storage.NewQuoteRepository(slots),
		Sessions:   sessions,
		Logger:     discardLogger(),
	})

	got, err := svc.RandomQuote(context.Background(), "sess-1", domain.FilterAll)

	require.NoError(t, err)
	assert.Equal(t, q("A", "X"), got)
}

func TestQuoteService_ListQuotesAndCategories(t *testing.T) {
	f := newServiceFixture(t, q("A", "Work"), q("B", "life"), q("C", "work"))

	all, err := f.svc.ListQuotes(context.Background(), domain.FilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	work, err := f.svc.ListQuotes(context.Background(), "WORK")
	require.NoError(t, err)
	assert.Equal(t, []domain.Quote{q("A", "Work"), q("C", "work")}, work)

	assert.Equal(t, []string{"life", "Work", "work"}, f.svc.Categories(context.Background()))
}

func TestQuoteService_SelectedFilter(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	filter, err := f.svc.SelectedFilter(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.FilterAll, filter)

	saved, err := f.svc.SetSelectedFilter(ctx, "  Work ")
	require.NoError(t, err)
	assert.Equal(t, "Work", saved)
	assert.Equal(t, "Work", f.slots.Dump()[ports.SlotSelectedCategory])

	saved, err = f.svc.SetSelectedFilter(ctx, "   ")
	require.NoError(t, err)
	assert.Equal(t, domain.FilterAll, saved)
	assert.NotContains(t, f.slots.Dump(), ports.SlotSelectedCategory, "selecting all clears the slot")
	assert.Equal(t, 1, f.slots.Deletes())

	filter, err = f.svc.SelectedFilter(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.FilterAll, filter)
}

func TestQuoteService_SetSelectedFilter_PersistenceFailure(t *testing.T) {
	f := newServiceFixture(t)
	f.slots.FailWrites(errors.New("disk full"))

	_, err := f.svc.SetSelectedFilter(context.Background(), "Work")

	assert.True(t, domain.IsPersistence(err))
}

func TestQuoteService_Export(t *testing.T) {
	f := newServiceFixture(t, q("A", "X"), q("B", "Y"))

	data, err := f.svc.Export(context.Background())
	require.NoError(t, err)

	want := "[\n  {\n    \"text\": \"A\",\n    \"category\": \"X\"\n  },\n  {\n    \"text\": \"B\",\n    \"category\": \"Y\"\n  }\n]"
	assert.Equal(t, want, string(data))
}

func TestQuoteService_Export_Empty(t *testing.T) {
	f := newServiceFixture(t, q("A", "X"))
	require.NoError(t, f.store.ReplaceAll(context.Background(), nil))

	data, err := f.svc.Export(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestQuoteService_ExportImportRoundTrip(t *testing.T) {
	f := newServiceFixture(t, q("A", "X"), q("", ""), q("A", "X"))
	original := f.store.Snapshot()

	data, err := f.svc.Export(context.Background())
	require.NoError(t, err)

	require.NoError(t, f.store.ReplaceAll(context.Background(), nil))

	result, err := f.svc.Import(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, original, f.store.Snapshot())
}

func TestQuoteService_Import_Format(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{"not json", `{"text":`, "not valid JSON"},
		{"object", `{"text":"A","category":"X"}`, "expected a JSON array"},
		{"scalar element", `[1]`, "element 0: expected an object"},
		{"missing category", `[{"text":"A","category":"X"},{"text":"B"}]`, `element 1: missing "category"`},
		{"null text", `[{"text":null,"category":"X"}]`, `element 0: missing "text"`},
		{"numeric text", `[{"text":7,"category":"X"}]`, `element 0: "text" must be a string`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t, q("Keep", "Me"))
			before := f.slots.Dump()

			result, err := f.svc.Import(context.Background(), []byte(tt.data))

			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, domain.IsImportFormat(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Equal(t, []domain.Quote{q("Keep", "Me")}, f.store.Snapshot())
			assert.Equal(t, before, f.slots.Dump())
		})
	}
}

func TestQuoteService_Import_ReplacesCollection(t *testing.T) {
	f := newServiceFixture(t, q("Old", "X"))

	result, err := f.svc.Import(context.Background(), []byte(`[
		{"text": "New", "category": "Y", "author": "ignored"},
		{"text": "", "category": ""}
	]`))

	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Nil(t, result.Sync)
	assert.Equal(t, []domain.Quote{q("New", "Y"), q("", "")}, f.store.Snapshot())
}

func TestQuoteService_Import_EmptyArray(t *testing.T) {
	f := newServiceFixture(t, q("Old", "X"))

	result, err := f.svc.Import(context.Background(), []byte(`[]`))

	require.NoError(t, err)
	assert.Zero(t, result.Imported)
	assert.Zero(t, f.store.Len())
}

func TestQuoteService_Import_SyncsAfterwards(t *testing.T) {
	f := newServiceFixture(t)
	f.flags.Set(ports.FlagSyncAfterImport, true)
	f.remote.EXPECT().FetchRemoteQuotes(mock.Anything).Return([]domain.Quote{q("R", "Z")}, nil)

	result, err := f.svc.Import(context.Background(), []byte(`[{"text":"A","category":"X"}]`))

	require.NoError(t, err)
	require.NotNil(t, result.Sync)
	assert.Equal(t, SyncSuccess, result.Sync.Status)
	assert.Empty(t, result.SyncError)
	assert.Equal(t, []domain.Quote{q("R", "Z"), q("A", "X")}, f.store.Snapshot())
}

func TestQuoteService_Import_SyncFailureKeepsImport(t *testing.T) {
	f := newServiceFixture(t)
	f.flags.Set(ports.FlagSyncAfterImport, true)
	f.remote.EXPECT().FetchRemoteQuotes(mock.Anything).Return(nil, domain.NewRemoteError("fetch", 0, "refused"))

	result, err := f.svc.Import(context.Background(), []byte(`[{"text":"A","category":"X"}]`))

	require.NoError(t, err)
	assert.Contains(t, result.SyncError, "refused")
	assert.Equal(t, SyncFailed, result.Sync.Status)
	assert.Equal(t, []domain.Quote{q("A", "X")}, f.store.Snapshot())
}

func TestQuoteService_Import_PushesWhenEnabled(t *testing.T) {
	f := newServiceFixture(t)
	f.flags.Set(ports.FlagPushOnImport, true)
	f.remote.EXPECT().PushQuote(mock.Anything, q("A", "X")).Return(&ports.PushResult{RemoteID: 1}, nil)
	f.remote.EXPECT().PushQuote(mock.Anything, q("B", "Y")).Return(nil, domain.NewRemoteError("push", 500, "boom"))

	result, err := f.svc.Import(context.Background(),
		[]byte(`[{"text":"A","category":"X"},{"text":"B","category":"Y"}]`))

	require.NoError(t, err)
	assert.Equal(t, 1, result.Pushed)
	assert.Equal(t, 1, result.PushFailed)
}

func TestImportResult_JSON(t *testing.T) {
	data, err := json.Marshal(ImportResult{Imported: 2})

	require.NoError(t, err)
	assert.JSONEq(t, `{"imported": 2}`, string(data))
}
