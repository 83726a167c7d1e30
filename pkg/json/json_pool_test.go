package json

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/reservoir/pkg/pool"
)

type testReport struct {
	ID         string   `json:"id"`
	Operations int64    `json:"operations"`
	Score      float64  `json:"score"`
	Tags       []string `json:"tags,omitempty"`
}

func newTestReport(i int) *testReport {
	return &testReport{
		ID:         pool.GenerateID("report"),
		Operations: int64(i) * 1000,
		Score:      float64(i) * 1.5,
		Tags:       []string{"pooled", "local"},
	}
}

// countingWriter records how many Write calls it receives.
type countingWriter struct {
	bytes.Buffer
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.Buffer.Write(p)
}

func TestMarshalRoundTrip(t *testing.T) {
	in := newTestReport(3)

	data, err := Marshal(in)
	require.NoError(t, err)

	var out testReport
	require.NoError(t, Unmarshal(data, &out))
	assert.Equal(t, *in, out)

	assert.Error(t, Unmarshal([]byte("{broken"), &out))
}

func TestMarshalIndentProducesReadableOutput(t *testing.T) {
	data, err := MarshalIndent(newTestReport(1), "", "  ")
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"id\"")
}

func TestEncodeToStagesSingleWrite(t *testing.T) {
	w := &countingWriter{}

	require.NoError(t, EncodeTo(w, newTestReport(7)))

	assert.Equal(t, 1, w.writes, "staged encode must reach the writer in one call")
	payload := w.Bytes()
	require.NotEmpty(t, payload)
	assert.Equal(t, byte('\n'), payload[len(payload)-1])

	var out testReport
	require.NoError(t, Unmarshal(payload[:len(payload)-1], &out))
	assert.Equal(t, int64(7000), out.Operations)
}

func TestEncodeToSurvivesBufferPoolExhaustion(t *testing.T) {
	var held []*pool.Handle[*pool.Buffer]
	for {
		h, ok := encodeBuffers.TryAcquire()
		if !ok {
			break
		}
		held = append(held, h)
	}
	defer func() {
		for _, h := range held {
			h.Release()
		}
	}()

	var w bytes.Buffer
	require.NoError(t, EncodeTo(&w, newTestReport(2)))

	var out testReport
	require.NoError(t, Unmarshal(bytes.TrimSpace(w.Bytes()), &out))
	assert.Equal(t, int64(2000), out.Operations)
}

func TestMarshalLines(t *testing.T) {
	out, err := MarshalLines(newTestReport(1), newTestReport(2), newTestReport(3))
	require.NoError(t, err)

	assert.Equal(t, 3, bytes.Count(out, []byte("\n")))

	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	require.Len(t, lines, 3)
	for i, line := range lines {
		var rec testReport
		require.NoError(t, Unmarshal(line, &rec))
		assert.Equal(t, int64(i+1)*1000, rec.Operations)
	}
}

func TestMarshalLinesEmpty(t *testing.T) {
	out, err := MarshalLines()
	require.NoError(t, err)
	assert.Empty(t, out)
}

func BenchmarkEncodeToPooled(b *testing.B) {
	rec := newTestReport(1)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := EncodeTo(io.Discard, rec); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMarshalDirect(b *testing.B) {
	rec := newTestReport(1)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := Marshal(rec); err != nil {
			b.Fatal(err)
		}
	}
}
