package limiter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodLimiter_KeyUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := NewMethodLimiter().AddBuckets(BucketRule{Key: "/share/:token", FillInterval: time.Hour, Capacity: 2, Quantum: 2})

	var keys []string
	r := gin.New()
	r.GET("/share/:token", func(c *gin.Context) {
		keys = append(keys, l.Key(c))
	})
	for _, tok := range []string{"aaa", "bbb"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/share/"+tok+"?x=1", nil))
	}
	assert.Equal(t, []string{"/share/:token", "/share/:token"}, keys)

	bucket, ok := l.GetBucket("/share/:token")
	require.True(t, ok)
	assert.Equal(t, int64(1), bucket.TakeAvailable(1))
	assert.Equal(t, int64(1), bucket.TakeAvailable(1))
	assert.Equal(t, int64(0), bucket.TakeAvailable(1))

	_, ok = l.GetBucket("/links/:resourceId")
	assert.False(t, ok)
}

func TestWindowLimiter(t *testing.T) {
	s := miniredis.RunT(t)

	l, err := NewWindowLimiter("redis://"+s.Addr(), 3, time.Minute)
	require.NoError(t, err)
	defer l.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok, "fourth request in the window must be limited")

	ok, err = l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok, "other clients have their own window")

	s.FastForward(time.Minute + time.Second)
	ok, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok, "window resets after expiry")
}

func TestWindowLimiter_BadURL(t *testing.T) {
	_, err := NewWindowLimiter("not a url", 1, time.Second)
	assert.Error(t, err)
}
