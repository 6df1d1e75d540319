package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchRetrievalToolsAttachedWhenEnabled(t *testing.T) {
	tools := searchRetrievalTools(true)
	require.Len(t, tools, 1)
	require.NotNil(t, tools[0].GoogleSearchRetrieval)
}

func TestSearchRetrievalToolsAbsentWhenDisabled(t *testing.T) {
	require.Nil(t, searchRetrievalTools(false))
}
