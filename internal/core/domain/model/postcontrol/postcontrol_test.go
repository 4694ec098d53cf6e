package postcontrol_test

import (
	"testing"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/postcontrol"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewTime = time.Date(2024, 5, 14, 12, 0, 0, 0, time.UTC)

func makeConfig(t *testing.T, parentID *kernel.UUID) *postcontrol.Config {
	t.Helper()
	c, err := postcontrol.NewConfig(
		kernel.NewUUID(), "Signed receipt", order.CardProduct,
		postcontrol.PostControlPurpose, parentID, 1)
	require.NoError(t, err)
	return c
}

func makeDocument(t *testing.T, orderID kernel.UUID, configID kernel.UUID) *postcontrol.Document {
	t.Helper()
	d, err := postcontrol.NewDocument(kernel.NewUUID(), orderID, configID, "s3://docs/receipt.jpg", reviewTime)
	require.NoError(t, err)
	return d
}

func TestLeafConfigs(t *testing.T) {
	t.Run("childless_top_level_is_leaf", func(t *testing.T) {
		top := makeConfig(t, nil)

		leaves := postcontrol.LeafConfigs([]*postcontrol.Config{top})

		require.Len(t, leaves, 1)
		assert.Equal(t, top.ID(), leaves[0].ID())
	})

	t.Run("parent_with_children_is_not_counted", func(t *testing.T) {
		parent := makeConfig(t, nil)
		parentID := parent.ID()
		childA := makeConfig(t, &parentID)
		childB := makeConfig(t, &parentID)
		standalone := makeConfig(t, nil)

		leaves := postcontrol.LeafConfigs([]*postcontrol.Config{parent, childA, childB, standalone})

		require.Len(t, leaves, 3)
		for _, leaf := range leaves {
			assert.False(t, leaf.ID().IsEqual(parent.ID()))
		}
	})
}

func TestDocument_Resolve(t *testing.T) {
	orderID := kernel.NewUUID()

	t.Run("accept", func(t *testing.T) {
		doc := makeDocument(t, orderID, kernel.NewUUID())
		actor := kernel.NewUUID()

		require.NoError(t, doc.Resolve(postcontrol.Accepted, "", actor, reviewTime))

		assert.Equal(t, postcontrol.Accepted, doc.Resolution())
		require.NotNil(t, doc.ResolvedAt())
		assert.Equal(t, actor, *doc.ResolvedBy())
	})

	t.Run("decline_requires_comment", func(t *testing.T) {
		doc := makeDocument(t, orderID, kernel.NewUUID())

		err := doc.Resolve(postcontrol.Declined, "", kernel.NewUUID(), reviewTime)
		require.ErrorIs(t, err, postcontrol.ErrCommentIsRequired)

		require.NoError(t, doc.Resolve(postcontrol.Declined, "wrong size", kernel.NewUUID(), reviewTime))
		assert.Equal(t, "wrong size", doc.Comment())
	})

	t.Run("bank_decline_requires_comment", func(t *testing.T) {
		doc := makeDocument(t, orderID, kernel.NewUUID())

		err := doc.Resolve(postcontrol.BankDeclined, "", kernel.NewUUID(), reviewTime)
		require.ErrorIs(t, err, postcontrol.ErrCommentIsRequired)
	})

	t.Run("pending_is_not_a_target", func(t *testing.T) {
		doc := makeDocument(t, orderID, kernel.NewUUID())

		err := doc.Resolve(postcontrol.Pending, "", kernel.NewUUID(), reviewTime)
		require.Error(t, err)
	})
}

func TestSummarize(t *testing.T) {
	orderID := kernel.NewUUID()

	resolve := func(t *testing.T, doc *postcontrol.Document, r postcontrol.Resolution) {
		t.Helper()
		comment := ""
		if r.IsDeclining() {
			comment = "rejected"
		}
		require.NoError(t, doc.Resolve(r, comment, kernel.NewUUID(), reviewTime))
	}

	t.Run("all_accepted", func(t *testing.T) {
		cfgA, cfgB := makeConfig(t, nil), makeConfig(t, nil)
		docA := makeDocument(t, orderID, cfgA.ID())
		docB := makeDocument(t, orderID, cfgB.ID())
		resolve(t, docA, postcontrol.Accepted)
		resolve(t, docB, postcontrol.BankAccepted)

		s := postcontrol.Summarize(
			[]*postcontrol.Config{cfgA, cfgB},
			[]*postcontrol.Document{docA, docB})

		assert.Equal(t, 2, s.LeafCount)
		assert.Equal(t, 2, s.AcceptedCount)
		assert.True(t, s.AllAccepted())
	})

	t.Run("pending_blocks_completion", func(t *testing.T) {
		cfg := makeConfig(t, nil)
		doc := makeDocument(t, orderID, cfg.ID())

		s := postcontrol.Summarize([]*postcontrol.Config{cfg}, []*postcontrol.Document{doc})

		assert.True(t, s.AnyPending)
		assert.False(t, s.AllAccepted())
	})

	t.Run("missing_document_blocks_completion", func(t *testing.T) {
		cfg := makeConfig(t, nil)

		s := postcontrol.Summarize([]*postcontrol.Config{cfg}, nil)

		assert.Equal(t, 1, s.LeafCount)
		assert.Equal(t, 0, s.AcceptedCount)
		assert.False(t, s.AllAccepted())
	})

	t.Run("declined_flags_summary", func(t *testing.T) {
		cfg := makeConfig(t, nil)
		doc := makeDocument(t, orderID, cfg.ID())
		resolve(t, doc, postcontrol.Declined)

		s := postcontrol.Summarize([]*postcontrol.Config{cfg}, []*postcontrol.Document{doc})

		assert.True(t, s.AnyDeclined)
		assert.False(t, s.AllAccepted())
	})

	t.Run("bank_declined_flags_summary", func(t *testing.T) {
		cfg := makeConfig(t, nil)
		doc := makeDocument(t, orderID, cfg.ID())
		resolve(t, doc, postcontrol.BankDeclined)

		s := postcontrol.Summarize([]*postcontrol.Config{cfg}, []*postcontrol.Document{doc})

		assert.True(t, s.AnyBankDecl)
		assert.False(t, s.AllAccepted())
	})

	t.Run("only_leaves_counted", func(t *testing.T) {
		parent := makeConfig(t, nil)
		parentID := parent.ID()
		child := makeConfig(t, &parentID)
		doc := makeDocument(t, orderID, child.ID())
		resolve(t, doc, postcontrol.Accepted)

		s := postcontrol.Summarize([]*postcontrol.Config{parent, child}, []*postcontrol.Document{doc})

		assert.Equal(t, 1, s.LeafCount)
		assert.True(t, s.AllAccepted())
	})

	t.Run("no_leaves_never_complete", func(t *testing.T) {
		s := postcontrol.Summarize(nil, nil)
		assert.False(t, s.AllAccepted())
	})
}

func TestCountDocumentsForConfig(t *testing.T) {
	orderID := kernel.NewUUID()
	cfg := makeConfig(t, nil)
	other := makeConfig(t, nil)
	docs := []*postcontrol.Document{
		makeDocument(t, orderID, cfg.ID()),
		makeDocument(t, orderID, cfg.ID()),
		makeDocument(t, orderID, other.ID()),
	}

	assert.Equal(t, 2, postcontrol.CountDocumentsForConfig(docs, cfg.ID()))
	assert.Equal(t, 1, postcontrol.CountDocumentsForConfig(docs, other.ID()))
}
