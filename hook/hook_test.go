package hook_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probeum/classkit"
	"github.com/probeum/classkit/classfile"
	"github.com/probeum/classkit/errors"
	"github.com/probeum/classkit/hook"
)

// classBytes builds the smallest parseable class file declaring the given
// internal name with super_class 0.
func classBytes(name string) []byte {
	var b []byte
	u2 := func(v uint16) { b = append(b, byte(v>>8), byte(v)) }

	b = append(b, 0xCA, 0xFE, 0xBA, 0xBE)
	u2(0)
	u2(52)
	u2(3)           // pool count: entries 1 and 2
	b = append(b, 7) // 1: Class
	u2(2)
	b = append(b, 1) // 2: Utf8 name
	u2(uint16(len(name)))
	b = append(b, name...)
	u2(0x0021) // access flags
	u2(1)      // this_class
	u2(0)      // super_class
	u2(0)      // interfaces
	u2(0)      // fields
	u2(0)      // methods
	u2(0)      // class attributes
	return b
}

type recorder struct {
	names []string
	trees []*classfile.ClassFile
	err   error
}

func (r *recorder) ObserveClass(_ context.Context, name string, cf *classfile.ClassFile) error {
	r.names = append(r.names, name)
	r.trees = append(r.trees, cf)
	return r.err
}

func TestHookDispatch(t *testing.T) {
	rec := &recorder{}
	h, err := hook.New(hook.WithObserver(rec))
	require.NoError(t, err)

	cf, err := h.OnClassFile(context.Background(), "demo/Widget", classBytes("demo/Widget"))
	require.NoError(t, err)
	require.NotNil(t, cf)

	require.Equal(t, []string{"demo/Widget"}, rec.names)
	assert.Same(t, cf, rec.trees[0])

	name, err := cf.ClassName()
	require.NoError(t, err)
	assert.Equal(t, "demo/Widget", name)

	s := h.Stats()
	assert.Equal(t, uint64(1), s.Loaded)
	assert.Equal(t, uint64(1), s.Parsed)
	assert.Zero(t, s.Failed)
}

func TestHookFilter(t *testing.T) {
	rec := &recorder{}
	h, err := hook.New(
		hook.WithObserver(rec),
		hook.WithFilter("java/util/", "demo/"),
	)
	require.NoError(t, err)

	ctx := context.Background()
	cf, err := h.OnClassFile(ctx, "sun/misc/Unsafe", classBytes("sun/misc/Unsafe"))
	require.NoError(t, err)
	assert.Nil(t, cf, "filtered class must not be parsed")

	_, err = h.OnClassFile(ctx, "demo/Widget", classBytes("demo/Widget"))
	require.NoError(t, err)

	assert.Equal(t, []string{"demo/Widget"}, rec.names)
	s := h.Stats()
	assert.Equal(t, uint64(2), s.Loaded)
	assert.Equal(t, uint64(1), s.Skipped)
	assert.Equal(t, uint64(1), s.Parsed)
}

func TestHookCache(t *testing.T) {
	h, err := hook.New()
	require.NoError(t, err)

	ctx := context.Background()
	data := classBytes("demo/Widget")

	first, err := h.OnClassFile(ctx, "demo/Widget", data)
	require.NoError(t, err)
	second, err := h.OnClassFile(ctx, "demo/Widget", data)
	require.NoError(t, err)
	assert.Same(t, first, second, "identical bytes must hit the cache")

	// A redefinition with different bytes must be re-parsed.
	redefined := classBytes("demo/Widget2")
	third, err := h.OnClassFile(ctx, "demo/Widget", redefined)
	require.NoError(t, err)
	assert.NotSame(t, first, third)

	s := h.Stats()
	assert.Equal(t, uint64(1), s.CacheHits)
	assert.Equal(t, uint64(2), s.Parsed)
}

func TestHookCacheDisabled(t *testing.T) {
	h, err := hook.New(hook.WithCacheSize(0))
	require.NoError(t, err)

	ctx := context.Background()
	data := classBytes("demo/Widget")
	first, err := h.OnClassFile(ctx, "demo/Widget", data)
	require.NoError(t, err)
	second, err := h.OnClassFile(ctx, "demo/Widget", data)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Zero(t, h.Stats().CacheHits)
}

func TestHookParseFailure(t *testing.T) {
	rec := &recorder{}
	h, err := hook.New(hook.WithObserver(rec))
	require.NoError(t, err)

	data := classBytes("demo/Widget")
	data[0] = 0x00

	cf, err := h.OnClassFile(context.Background(), "demo/Widget", data)
	assert.Nil(t, cf)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindNotAClassFile))
	assert.Empty(t, rec.names, "observers must not see unparseable classes")

	s := h.Stats()
	assert.Equal(t, uint64(1), s.Failed)
	assert.Zero(t, s.Parsed)
}

func TestHookObserverError(t *testing.T) {
	boom := fmt.Errorf("observer exploded")
	failing := &recorder{err: boom}
	after := &recorder{}
	h, err := hook.New(hook.WithObserver(failing))
	require.NoError(t, err)
	h.Register(after)

	cf, err := h.OnClassFile(context.Background(), "demo/Widget", classBytes("demo/Widget"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotNil(t, cf, "the tree is still returned alongside the dispatch error")

	var e *errors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, errors.PhaseHook, e.Phase)
}

func TestHookContextCanceled(t *testing.T) {
	rec := &recorder{}
	h, err := hook.New(hook.WithObserver(rec))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = h.OnClassFile(ctx, "demo/Widget", classBytes("demo/Widget"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.names)
}

func TestHookObserverFunc(t *testing.T) {
	var got string
	h, err := hook.New(hook.WithObserver(classkit.ObserverFunc(
		func(_ context.Context, name string, _ *classfile.ClassFile) error {
			got = name
			return nil
		})))
	require.NoError(t, err)

	_, err = h.OnClassFile(context.Background(), "demo/Widget", classBytes("demo/Widget"))
	require.NoError(t, err)
	assert.Equal(t, "demo/Widget", got)
}
