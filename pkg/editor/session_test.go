package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isofar/wayfinder/pkg/errors"
	"github.com/isofar/wayfinder/pkg/mapgraph"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	sess, err := NewSession(context.Background(), store)
	require.NoError(t, err)
	return sess
}

func TestNewSessionStartsFromDefaultMap(t *testing.T) {
	sess := newTestSession(t)
	assert.NotEmpty(t, sess.ID)
	assert.False(t, sess.Dirty())
	assert.Greater(t, sess.Graph().NodeCount(), 0)
	assert.Greater(t, sess.Graph().EdgeCount(), 0)
}

func TestExportImportRoundTrip(t *testing.T) {
	sess := newTestSession(t)
	nodes := sess.Graph().NodeCount()
	edges := sess.Graph().EdgeCount()

	data, err := sess.ExportSnapshot()
	require.NoError(t, err)

	require.NoError(t, sess.ImportSnapshot(data))
	assert.Equal(t, nodes, sess.Graph().NodeCount())
	assert.Equal(t, edges, sess.Graph().EdgeCount())

	again, err := sess.ExportSnapshot()
	require.NoError(t, err)
	assert.Equal(t, data, again, "export must be stable across a round trip")
}

func TestImportInvalidSnapshotRetainsPriorGraph(t *testing.T) {
	sess := newTestSession(t)
	nodes := sess.Graph().NodeCount()

	err := sess.ImportSnapshot([]byte("not json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFormat))
	assert.Equal(t, nodes, sess.Graph().NodeCount(), "failed import must not touch the graph")
}

func TestImportMissingEdgesArray(t *testing.T) {
	sess := newTestSession(t)
	nodes := sess.Graph().NodeCount()

	err := sess.ImportSnapshot([]byte(`{"version": 1, "nodes": []}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFormat))
	assert.Equal(t, nodes, sess.Graph().NodeCount())
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	sess, err := NewSession(ctx, store)
	require.NoError(t, err)

	id, err := sess.AddNode(mapgraph.Node{X: 50, Y: 60})
	require.NoError(t, err)
	assert.True(t, sess.Dirty())

	require.NoError(t, sess.Save(ctx))
	assert.False(t, sess.Dirty())

	// A fresh session against the same store sees the saved node.
	again, err := NewSession(ctx, store)
	require.NoError(t, err)
	_, ok := again.Graph().Node(id)
	assert.True(t, ok, "saved node should survive reload")
}

func TestLoadWithoutPriorSave(t *testing.T) {
	sess := newTestSession(t)
	err := sess.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestSaveOverwritesPriorSnapshot(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	sess, err := NewSession(ctx, store)
	require.NoError(t, err)

	id, err := sess.AddNode(mapgraph.Node{X: 10, Y: 10})
	require.NoError(t, err)
	require.NoError(t, sess.Save(ctx))

	require.NoError(t, sess.RemoveNode(id))
	require.NoError(t, sess.Save(ctx))

	require.NoError(t, sess.Load(ctx))
	_, ok := sess.Graph().Node(id)
	assert.False(t, ok, "second save must overwrite the first")
}

func TestMutationsMarkDirty(t *testing.T) {
	sess := newTestSession(t)

	id, err := sess.AddNode(mapgraph.Node{X: 20, Y: 20})
	require.NoError(t, err)
	assert.True(t, sess.Dirty())

	require.NoError(t, sess.Save(context.Background()))
	require.NoError(t, sess.MoveNode(id, 30, 30))
	assert.True(t, sess.Dirty())
}

func TestFailedMutationLeavesSessionClean(t *testing.T) {
	sess := newTestSession(t)
	require.NoError(t, sess.Save(context.Background()))

	err := sess.MoveNode("no-such-node", 1, 1)
	require.Error(t, err)
	assert.False(t, sess.Dirty())
}

func TestResetToDefault(t *testing.T) {
	sess := newTestSession(t)
	defaultNodes := sess.Graph().NodeCount()

	_, err := sess.AddNode(mapgraph.Node{X: 5, Y: 5})
	require.NoError(t, err)

	require.NoError(t, sess.ResetToDefault())
	assert.Equal(t, defaultNodes, sess.Graph().NodeCount())
	assert.True(t, sess.Dirty())
}

func TestFileStoreMissingSnapshot(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	data, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, []byte(`{}`)))
	require.NoError(t, store.Delete(ctx))
	require.NoError(t, store.Delete(ctx), "deleting a missing snapshot is not an error")

	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestHistoryRecordsAppliedCommands(t *testing.T) {
	sess := newTestSession(t)

	id, err := sess.AddNode(mapgraph.Node{X: 10, Y: 20, Name: "camp"})
	require.NoError(t, err)
	require.NoError(t, sess.MoveNode(id, 30, 40))
	require.NoError(t, sess.RemoveNode(id))

	hist := sess.History()
	require.Len(t, hist, 3)
	assert.Equal(t, "add_node", hist[0].Op)
	assert.Equal(t, "move_node", hist[1].Op)
	assert.Equal(t, "remove_node", hist[2].Op)
	for i, ch := range hist {
		assert.Equal(t, i+1, ch.Seq)
		assert.Equal(t, sess.ID, ch.Session)
	}
}

func TestHistorySkipsFailedCommands(t *testing.T) {
	sess := newTestSession(t)

	err := sess.MoveNode("no-such-node", 1, 1)
	require.Error(t, err)
	assert.Empty(t, sess.History())
}
