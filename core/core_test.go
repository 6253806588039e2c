package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/internal/iocache"
	"github.com/huangsam/storecast/schema"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeClient is a PredictionClient whose calls are scripted per test.
type fakeClient struct {
	forecast  func(ctx context.Context, req schema.ForecastRequest) ([]schema.PredictionRecord, error)
	recommend func(ctx context.Context, lastPurchase string) ([]schema.RecommendationItem, error)
	classify  func(ctx context.Context, fileName string, body []byte) (string, error)
	calls     atomic.Int32
}

var _ contract.PredictionClient = &fakeClient{} // Compile-time check

func (f *fakeClient) Forecast(ctx context.Context, req schema.ForecastRequest) ([]schema.PredictionRecord, error) {
	f.calls.Add(1)
	return f.forecast(ctx, req)
}

func (f *fakeClient) Recommend(ctx context.Context, lastPurchase string) ([]schema.RecommendationItem, error) {
	f.calls.Add(1)
	return f.recommend(ctx, lastPurchase)
}

func (f *fakeClient) Classify(ctx context.Context, fileName string, body []byte) (string, error) {
	f.calls.Add(1)
	return f.classify(ctx, fileName, body)
}

func testConfig() *contract.Config {
	return &contract.Config{
		Precision: 2,
		Output:    schema.JSONOut,
		Highlight: contract.AutoHighlight,
		CacheTTL:  contract.DefaultCacheTTL,
		Catalog:   schema.DefaultCatalog(),
	}
}

func unsortedRecords() []schema.PredictionRecord {
	return []schema.PredictionRecord{
		{Date: "2012-10-19 00:00:00", Sales: 300},
		{Date: "2012-10-05 00:00:00", Sales: 100},
		{Date: "2012-10-12 00:00:00", Sales: 200},
	}
}

func historyManager(t *testing.T, cache contract.CacheStore) (*iocache.MockCacheManager, *iocache.MockHistoryStore) {
	t.Helper()
	history := &iocache.MockHistoryStore{}
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetResponseStore").Return(cache).Maybe()
	mgr.On("GetHistoryStore").Return(history)
	return mgr, history
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestForecastSortsAndRecords(t *testing.T) {
	client := &fakeClient{forecast: func(_ context.Context, req schema.ForecastRequest) ([]schema.PredictionRecord, error) {
		assert.Equal(t, schema.ForecastRequest{Department: 2, Store: 3}, req)
		return unsortedRecords(), nil
	}}
	mgr, history := historyManager(t, nil)
	history.On("RecordSubmission", mock.MatchedBy(func(sub schema.Submission) bool {
		return sub.Form == schema.ForecastForm && sub.Status == schema.SubmissionOK && !sub.Cached && sub.RequestKey != ""
	})).Return(int64(1), nil).Once()

	cfg := testConfig()
	cfg.Department, cfg.Store = 2, 3
	result, err := GetForecastResults(context.Background(), cfg, client, mgr)
	require.NoError(t, err)

	assert.Equal(t, schema.DefaultForecastHighlight, result.Highlight)
	require.Len(t, result.Points, 3)
	assert.True(t, schema.IsSorted(result.Points))
	assert.Equal(t, 100.0, result.Points[0].Value)
	history.AssertExpectations(t)
}

func TestForecastHighlightOverride(t *testing.T) {
	client := &fakeClient{forecast: func(context.Context, schema.ForecastRequest) ([]schema.PredictionRecord, error) {
		return unsortedRecords(), nil
	}}
	cfg := testConfig()
	cfg.Highlight = 0
	result, err := Forecast(context.Background(), cfg, client, nil, schema.ForecastRequest{Department: 1, Store: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Highlight)
}

func TestForecastFailures(t *testing.T) {
	tests := []struct {
		name    string
		records []schema.PredictionRecord
		err     error
		reason  contract.FailureReason
	}{
		{"upstream status", nil, &contract.RequestError{Reason: contract.ReasonStatus, StatusCode: 502}, contract.ReasonStatus},
		{"bad date", []schema.PredictionRecord{{Date: "soon", Sales: 1}}, nil, contract.ReasonDecode},
		{"duplicate date", []schema.PredictionRecord{{Date: "2012-10-05", Sales: 1}, {Date: "2012-10-05", Sales: 2}}, nil, contract.ReasonDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{forecast: func(context.Context, schema.ForecastRequest) ([]schema.PredictionRecord, error) {
				return tt.records, tt.err
			}}
			cache := &iocache.MockCacheStore{}
			cache.On("Get", mock.Anything).Return(nil, 0, int64(0), errors.New("miss"))
			mgr, history := historyManager(t, cache)
			history.On("RecordSubmission", mock.MatchedBy(func(sub schema.Submission) bool {
				return sub.Status == schema.SubmissionFailed && sub.Reason == string(tt.reason)
			})).Return(int64(1), nil).Once()

			cfg := testConfig()
			cfg.Department, cfg.Store = 1, 1
			_, err := GetForecastResults(context.Background(), cfg, client, mgr)
			require.Error(t, err)
			assert.ErrorIs(t, err, contract.ErrRequestFailed)
			assert.Equal(t, tt.reason, contract.ReasonOf(err))
			history.AssertExpectations(t)
			cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestForecastCache(t *testing.T) {
	req := schema.ForecastRequest{Department: 1, Store: 2}
	key := requestKey(schema.ForecastForm, req)
	cachedPoints := []schema.DataPoint{{Date: time.Date(2012, 10, 5, 0, 0, 0, 0, time.UTC), Value: 42}}
	data, err := json.Marshal(cachedPoints)
	require.NoError(t, err)

	t.Run("hit skips the endpoint", func(t *testing.T) {
		client := &fakeClient{}
		cache := &iocache.MockCacheStore{}
		cache.On("Get", key).Return(data, currentCacheVersion, time.Now().Unix(), nil)
		mgr, history := historyManager(t, cache)
		history.On("RecordSubmission", mock.MatchedBy(func(sub schema.Submission) bool { return sub.Cached })).Return(int64(1), nil)

		result, err := Forecast(context.Background(), testConfig(), client, mgr, req)
		require.NoError(t, err)
		assert.Equal(t, cachedPoints, result.Points)
		assert.Equal(t, int32(0), client.calls.Load())
		history.AssertExpectations(t)
	})

	t.Run("stale entry is refreshed", func(t *testing.T) {
		client := &fakeClient{forecast: func(context.Context, schema.ForecastRequest) ([]schema.PredictionRecord, error) {
			return unsortedRecords(), nil
		}}
		cache := &iocache.MockCacheStore{}
		cache.On("Get", key).Return(data, currentCacheVersion, time.Now().Add(-time.Hour).Unix(), nil)
		cache.On("Set", key, mock.Anything, currentCacheVersion, mock.Anything).Return(nil).Once()
		mgr, history := historyManager(t, cache)
		history.On("RecordSubmission", mock.Anything).Return(int64(1), nil)

		result, err := Forecast(context.Background(), testConfig(), client, mgr, req)
		require.NoError(t, err)
		assert.Len(t, result.Points, 3)
		assert.Equal(t, int32(1), client.calls.Load())
		cache.AssertExpectations(t)
	})

	t.Run("version mismatch is a miss", func(t *testing.T) {
		cache := &iocache.MockCacheStore{}
		cache.On("Get", key).Return(data, currentCacheVersion+1, time.Now().Unix(), nil)
		_, ok := checkCacheHit[[]schema.DataPoint](cache, key, time.Minute)
		assert.False(t, ok)
	})

	t.Run("bypass skips lookup but stores", func(t *testing.T) {
		client := &fakeClient{forecast: func(context.Context, schema.ForecastRequest) ([]schema.PredictionRecord, error) {
			return unsortedRecords(), nil
		}}
		cache := &iocache.MockCacheStore{}
		cache.On("Set", key, mock.Anything, currentCacheVersion, mock.Anything).Return(nil).Once()
		mgr, history := historyManager(t, cache)
		history.On("RecordSubmission", mock.Anything).Return(int64(1), nil)

		_, err := Forecast(WithCacheBypass(context.Background()), testConfig(), client, mgr, req)
		require.NoError(t, err)
		cache.AssertNotCalled(t, "Get", mock.Anything)
		cache.AssertExpectations(t)
	})

	t.Run("zero ttl disables caching", func(t *testing.T) {
		client := &fakeClient{forecast: func(context.Context, schema.ForecastRequest) ([]schema.PredictionRecord, error) {
			return unsortedRecords(), nil
		}}
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetHistoryStore").Return(nil)
		cfg := testConfig()
		cfg.CacheTTL = 0

		_, err := Forecast(context.Background(), cfg, client, mgr, req)
		require.NoError(t, err)
		mgr.AssertNotCalled(t, "GetResponseStore")
	})
}

func TestConcurrentIdenticalSubmissionsShareOneCall(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	client := &fakeClient{forecast: func(context.Context, schema.ForecastRequest) ([]schema.PredictionRecord, error) {
		once.Do(func() { close(started) })
		<-release
		return unsortedRecords(), nil
	}}
	req := schema.ForecastRequest{Department: 3, Store: 3}

	const callers = 5
	var wg sync.WaitGroup
	results := make([]schema.ForecastResult, callers)
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = Forecast(context.Background(), testConfig(), client, nil, req)
		}(i)
	}

	<-started
	time.Sleep(100 * time.Millisecond) // Let the other callers join the in-flight call
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), client.calls.Load())
	for i := range callers {
		require.NoError(t, errs[i])
		assert.Len(t, results[i].Points, 3)
	}
}

func TestDistinctSubmissionsDoNotBlock(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	client := &fakeClient{forecast: func(_ context.Context, req schema.ForecastRequest) ([]schema.PredictionRecord, error) {
		if req.Store == 1 {
			<-block
		}
		return unsortedRecords(), nil
	}}

	go func() {
		_, _ = Forecast(context.Background(), testConfig(), client, nil, schema.ForecastRequest{Department: 9, Store: 1})
	}()

	done := make(chan error, 1)
	go func() {
		_, err := Forecast(context.Background(), testConfig(), client, nil, schema.ForecastRequest{Department: 9, Store: 2})
		done <- err
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("distinct submission was blocked by an unrelated in-flight call")
	}
}

func TestCanceledCallerReturnsTransport(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	client := &fakeClient{forecast: func(context.Context, schema.ForecastRequest) ([]schema.PredictionRecord, error) {
		<-block
		return unsortedRecords(), nil
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := Forecast(ctx, testConfig(), client, nil, schema.ForecastRequest{Department: 8, Store: 8})
	require.Error(t, err)
	assert.Equal(t, contract.ReasonTransport, contract.ReasonOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResolveLastPurchase(t *testing.T) {
	tests := []struct {
		name         string
		customer     string
		lastPurchase string
		want         string
		wantErr      bool
	}{
		{"explicit purchase wins", "1", "Desk Lamp", "Desk Lamp", false},
		{"customer by id", "5", "", "Sport Men Sweatshirt", false},
		{"customer by name", "ronaldo", "", "Sport Men Sweatshirt", false},
		{"unknown customer", "Nobody", "", "", true},
		{"nothing selected", "", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Customer, cfg.LastPurchase = tt.customer, tt.lastPurchase
			got, err := ResolveLastPurchase(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, contract.ReasonInvalidInput, contract.ReasonOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetRecommendations(t *testing.T) {
	items := []schema.RecommendationItem{{Manufacturer: "Acme", Name: "Hoodie", Ratings: 4.1}}
	client := &fakeClient{recommend: func(_ context.Context, lastPurchase string) ([]schema.RecommendationItem, error) {
		assert.Equal(t, "Sport Men Sweatshirt", lastPurchase)
		return items, nil
	}}
	mgr, history := historyManager(t, nil)
	history.On("RecordSubmission", mock.MatchedBy(func(sub schema.Submission) bool {
		return sub.Form == schema.RecommendationForm
	})).Return(int64(1), nil)

	cfg := testConfig()
	cfg.Customer = "Ronaldo"
	result, err := GetRecommendations(context.Background(), cfg, client, mgr)
	require.NoError(t, err)
	assert.Equal(t, "Sport Men Sweatshirt", result.LastPurchase)
	assert.Equal(t, items, result.Items)
}

func TestInspectImage(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		meta, err := InspectImage("/tmp/dir/cat.png", pngBytes(t, 4, 3))
		require.NoError(t, err)
		assert.Equal(t, "cat.png", meta.FileName)
		assert.Equal(t, "image/png", meta.ContentType)
		assert.Equal(t, 4, meta.Width)
		assert.Equal(t, 3, meta.Height)
	})

	t.Run("jpeg", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil))
		meta, err := InspectImage("dog.jpg", buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", meta.ContentType)
	})

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"text", []byte("definitely not an image")},
		{"truncated png", pngBytes(t, 4, 3)[:20]},
		{"too large", make([]byte, contract.MaxImageBytes+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := InspectImage("x.png", tt.data)
			require.Error(t, err)
			assert.Equal(t, contract.ReasonInvalidInput, contract.ReasonOf(err))
		})
	}
}

func TestClassify(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := &fakeClient{classify: func(_ context.Context, fileName string, body []byte) (string, error) {
			assert.Equal(t, "cat.png", fileName)
			assert.NotEmpty(t, body)
			return "cat", nil
		}}
		path := filepath.Join(t.TempDir(), "cat.png")
		require.NoError(t, os.WriteFile(path, pngBytes(t, 2, 2), 0o644))

		cfg := testConfig()
		cfg.ImagePath = path
		result, err := GetClassification(context.Background(), cfg, client, nil)
		require.NoError(t, err)
		assert.Equal(t, "cat", result.Label)
		assert.Equal(t, 2, result.Width)
	})

	t.Run("invalid image is recorded without a call", func(t *testing.T) {
		client := &fakeClient{}
		mgr, history := historyManager(t, nil)
		history.On("RecordSubmission", mock.MatchedBy(func(sub schema.Submission) bool {
			return sub.Form == schema.ClassificationForm && sub.Reason == string(contract.ReasonInvalidInput)
		})).Return(int64(1), nil).Once()

		_, err := Classify(context.Background(), testConfig(), client, mgr, "notes.txt", []byte("hello"))
		require.Error(t, err)
		assert.Equal(t, int32(0), client.calls.Load())
		history.AssertExpectations(t)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := GetClassification(context.Background(), testConfig(), &fakeClient{}, nil)
		require.Error(t, err)
		assert.Equal(t, contract.ReasonInvalidInput, contract.ReasonOf(err))
	})
}

func TestRequestKey(t *testing.T) {
	a := requestKey(schema.ForecastForm, schema.ForecastRequest{Department: 1, Store: 1})
	b := requestKey(schema.ForecastForm, schema.ForecastRequest{Department: 1, Store: 1})
	c := requestKey(schema.RecommendationForm, schema.ForecastRequest{Department: 1, Store: 1})
	d := requestKey(schema.ForecastForm, schema.ForecastRequest{Department: 1, Store: 2})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.Len(t, a, 64)
}

func TestRecordSubmissionLogs(t *testing.T) {
	logger, hook := test.NewNullLogger()
	ctx := WithLogger(context.Background(), logrus.NewEntry(logger))

	recordSubmission(ctx, nil, schema.ForecastForm, "k", time.Now(), false, contract.NewRequestError(contract.ReasonEmpty, nil))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "empty", entry.Data["reason"])
	assert.Equal(t, schema.ForecastForm, entry.Data["form"])

	recordSubmission(ctx, nil, schema.ForecastForm, "k", time.Now(), true, nil)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.False(t, shouldBypassCache(ctx))
	assert.True(t, shouldBypassCache(WithCacheBypass(ctx)))
	assert.NotNil(t, loggerFrom(ctx))
}

func TestExecuteHistoryListDisabled(t *testing.T) {
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetHistoryStore").Return(nil)
	err := ExecuteHistoryList(context.Background(), testConfig(), mgr, 10)
	assert.ErrorIs(t, err, errHistoryDisabled)
}

func TestExecuteStatusAndCatalog(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()

	cfg.OutputFile = filepath.Join(dir, "status.json")
	require.NoError(t, ExecuteStatus(context.Background(), cfg, nil, "dev"))
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": "dev"`)

	cfg.OutputFile = filepath.Join(dir, "catalog.json")
	require.NoError(t, ExecuteCatalog(context.Background(), cfg))
	data, err = os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Camilo")
}
