package sources

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	names []string
	meta  *Metadata
	err   error
}

func (s *stubCatalog) ListEntries(ctx context.Context) ([]string, error) {
	return s.names, s.err
}

func (s *stubCatalog) GetEntryMetadata(ctx context.Context, name string) (*Metadata, error) {
	return s.meta, s.err
}

func TestWithLogging_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogfmtLogger(&buf)

	catalog := WithLogging(&stubCatalog{err: errors.New("boom")}, logger)
	_, err := catalog.GetEntryMetadata(context.Background(), "pikachu")
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "component=catalog")
	assert.Contains(t, out, "method=GetEntryMetadata")
	assert.Contains(t, out, "name=pikachu")
	assert.Contains(t, out, "err=boom")
}

func TestWithLogging_PassesResultsThrough(t *testing.T) {
	var buf bytes.Buffer
	stub := &stubCatalog{names: []string{"Pikachu"}}

	catalog := WithLogging(stub, log.NewLogfmtLogger(&buf))
	names, err := catalog.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Pikachu"}, names)
	assert.Contains(t, buf.String(), "count=1")
}
