package graph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracekit/ctf/graph"
)

func TestErrorChainOrderingAndTakeMoveClear(t *testing.T) {
	var ec graph.ErrorChain
	require.True(t, ec.Empty())

	ec.AppendCauseFromUnknown("first")
	ec.AppendCauseFromComponent("comp-a", "class-a", "second")
	ec.AppendCauseFromMessageIterator("comp-a", "class-a", "third")

	causes := ec.Causes()
	require.Len(t, causes, 3)
	require.Equal(t, "first", causes[0].Message)
	require.Equal(t, "second", causes[1].Message)
	require.Equal(t, "third", causes[2].Message)
	require.Equal(t, graph.ActorUnknown, causes[0].ActorType)
	require.Equal(t, graph.ActorComponent, causes[1].ActorType)
	require.Equal(t, graph.ActorMessageIterator, causes[2].ActorType)
	require.NotZero(t, causes[0].Line)

	taken := ec.Take()
	require.Len(t, taken, 3)
	require.True(t, ec.Empty())

	ec.Move(taken)
	require.False(t, ec.Empty())
	require.Equal(t, taken, ec.Causes())

	ec.Clear()
	require.True(t, ec.Empty())
}

func TestCauseStringIncludesComponentName(t *testing.T) {
	c := graph.Cause{ActorType: graph.ActorComponent, ComponentName: "src", File: "x.go", Line: 1, Message: "boom"}
	require.Contains(t, c.String(), "src")
	require.Contains(t, c.String(), "boom")
}
