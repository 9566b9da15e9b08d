package transfer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/gen3kit/internal/format"
	"github.com/joshuapare/gen3kit/internal/testutil"
	"github.com/joshuapare/gen3kit/internal/writer"
	"github.com/joshuapare/gen3kit/pkg/types"
	"github.com/joshuapare/gen3kit/save"
	"github.com/joshuapare/gen3kit/save/layout"
	"github.com/joshuapare/gen3kit/save/section"
)

func failSink() *writer.MemWriter { return &writer.MemWriter{Err: errors.New("disk full")} }

func blocks(t *testing.T, f types.Family) *testutil.Blocks {
	t.Helper()
	l, ok := layout.ForFamily(f)
	require.True(t, ok)
	return testutil.NewBlocks(l)
}

func open(t *testing.T, b *testutil.Blocks, opts ...save.Option) *section.Sections {
	t.Helper()
	s, err := section.OpenBytes(testutil.BuildSave(b, 10), b.Layout, opts...)
	require.NoError(t, err)
	return s
}

func run(t *testing.T, req *Request) (*Result, error) {
	t.Helper()
	return NewCoordinator().Execute(context.Background(), req)
}

func TestMove_BoxToBoxAcrossSaves(t *testing.T) {
	rec := testutil.BoxRecord(t, 252, 0x1234_5678)
	src := open(t, blocks(t, types.FamilyE).PutBox(0, 0, rec))
	dst := open(t, blocks(t, types.FamilyFRLG).UnlockStorage())

	res, err := run(t, NewRequest(src, dst, types.BoxSlot(0, 0), types.BoxSlot(3, 7)))
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, res.State)
	assert.Equal(t, uint16(252), res.Species)
	assert.Empty(t, res.Warnings)

	assert.Equal(t, uint32(11), dst.Image().Counter())
	assert.Equal(t, uint32(11), src.Image().Counter())

	// Reload both from their committed bytes.
	dst2, err := section.OpenBytes(dst.Image().Bytes(), dst.Layout())
	require.NoError(t, err)
	got, err := dst2.BoxRecord(3, 7)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	src2, err := section.OpenBytes(src.Image().Bytes(), src.Layout())
	require.NoError(t, err)
	got, err = src2.BoxRecord(0, 0)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 80), got)
}

func TestMove_PartyToBoxStripsStatsAndCompacts(t *testing.T) {
	lead := testutil.PartyRecord(t, 280, 77, 50)
	second := testutil.PartyRecord(t, 25, 88, 5)
	src := open(t, blocks(t, types.FamilyRS).SetParty(lead, second))
	dst := open(t, blocks(t, types.FamilyE).UnlockStorage())

	res, err := run(t, NewRequest(src, dst, types.PartySlot(0), types.BoxSlot(0, 0)))
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "obedience cap of 10")

	got, err := dst.BoxRecord(0, 0)
	require.NoError(t, err)
	assert.Equal(t, testutil.BoxRecord(t, 280, 77), got)

	assert.Equal(t, 1, src.PartyCount())
	p0, err := src.PartyRecord(0)
	require.NoError(t, err)
	assert.Equal(t, second, p0)
}

func TestObedienceWarningSkippedForOwnTrainer(t *testing.T) {
	src := open(t, blocks(t, types.FamilyE).SetParty(
		testutil.PartyRecord(t, 280, 77, 90), testutil.PartyRecord(t, 25, 88, 5)))
	// testutil records carry trainer 12345 / secret 1.
	dst := open(t, blocks(t, types.FamilyE).UnlockStorage().SetTrainerID(12345, 1))

	res, err := run(t, NewRequest(src, dst, types.PartySlot(0), types.BoxSlot(0, 0)))
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
}

func TestObedienceCap(t *testing.T) {
	assert.Equal(t, 10, ObedienceCap(0))
	assert.Equal(t, 50, ObedienceCap(4))
	assert.Equal(t, 80, ObedienceCap(7))
	assert.Equal(t, 100, ObedienceCap(8))
	assert.Equal(t, 100, ObedienceCap(12))
	assert.Equal(t, 10, ObedienceCap(-1))
}

func TestRejections(t *testing.T) {
	rec := testutil.BoxRecord(t, 1, 100)
	other := testutil.BoxRecord(t, 4, 200)

	tests := []struct {
		name string
		src  *testutil.Blocks
		dst  *testutil.Blocks
		from types.SlotRef
		to   types.SlotRef
		want error
	}{
		{
			name: "occupied destination",
			src:  blocks(t, types.FamilyE).PutBox(0, 0, rec),
			dst:  blocks(t, types.FamilyE).UnlockStorage().PutBox(1, 1, other),
			from: types.BoxSlot(0, 0), to: types.BoxSlot(1, 1),
			want: types.ErrSlotOccupied,
		},
		{
			name: "undecodable destination bytes count as occupied",
			src:  blocks(t, types.FamilyE).PutBox(0, 0, rec),
			dst:  blocks(t, types.FamilyE).UnlockStorage().PutBox(1, 1, []byte{0xFF}),
			from: types.BoxSlot(0, 0), to: types.BoxSlot(1, 1),
			want: types.ErrSlotOccupied,
		},
		{
			name: "occupied wins over locked storage",
			src:  blocks(t, types.FamilyE),
			dst:  blocks(t, types.FamilyE).PutBox(1, 1, other),
			from: types.BoxSlot(0, 0), to: types.BoxSlot(1, 1),
			want: types.ErrSlotOccupied,
		},
		{
			name: "storage locked",
			src:  blocks(t, types.FamilyE).PutBox(0, 0, rec),
			dst:  blocks(t, types.FamilyFRLG),
			from: types.BoxSlot(0, 0), to: types.BoxSlot(1, 1),
			want: types.ErrStorageLocked,
		},
		{
			name: "locked wins over empty source",
			src:  blocks(t, types.FamilyE),
			dst:  blocks(t, types.FamilyRS),
			from: types.BoxSlot(0, 0), to: types.BoxSlot(1, 1),
			want: types.ErrStorageLocked,
		},
		{
			name: "empty box source",
			src:  blocks(t, types.FamilyE),
			dst:  blocks(t, types.FamilyE).UnlockStorage(),
			from: types.BoxSlot(0, 0), to: types.BoxSlot(1, 1),
			want: types.ErrEmptySource,
		},
		{
			name: "party slot past count",
			src:  blocks(t, types.FamilyE).SetParty(testutil.PartyRecord(t, 1, 1, 5)),
			dst:  blocks(t, types.FamilyE).UnlockStorage(),
			from: types.PartySlot(3), to: types.BoxSlot(1, 1),
			want: types.ErrEmptySource,
		},
		{
			name: "last party member",
			src:  blocks(t, types.FamilyFRLG).SetParty(testutil.PartyRecord(t, 1, 1, 5)),
			dst:  blocks(t, types.FamilyE).UnlockStorage(),
			from: types.PartySlot(0), to: types.BoxSlot(1, 1),
			want: types.ErrPartyMinimum,
		},
		{
			name: "party destination",
			src:  blocks(t, types.FamilyE).PutBox(0, 0, rec),
			dst:  blocks(t, types.FamilyE).UnlockStorage(),
			from: types.BoxSlot(0, 0), to: types.PartySlot(0),
			want: types.ErrUnsupportedDestination,
		},
		{
			name: "destination out of range",
			src:  blocks(t, types.FamilyE).PutBox(0, 0, rec),
			dst:  blocks(t, types.FamilyE).UnlockStorage(),
			from: types.BoxSlot(0, 0), to: types.BoxSlot(14, 0),
			want: types.ErrDestinationInvalid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, dst := open(t, tt.src), open(t, tt.dst)
			srcBefore, dstBefore := src.Image().Bytes(), dst.Image().Bytes()

			req := NewRequest(src, dst, tt.from, tt.to)
			res, err := run(t, req)
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, types.ErrRejected)
			assert.Equal(t, StateRejected, res.State)
			assert.Equal(t, StateRejected, req.State())

			assert.Equal(t, srcBefore, src.Image().Bytes())
			assert.Equal(t, dstBefore, dst.Image().Bytes())
			assert.False(t, src.Dirty())
			assert.False(t, dst.Dirty())
		})
	}
}

func TestReject_NilDestination(t *testing.T) {
	src := open(t, blocks(t, types.FamilyE))
	res, err := run(t, NewRequest(src, nil, types.BoxSlot(0, 0), types.BoxSlot(0, 1)))
	require.ErrorIs(t, err, types.ErrDestinationInvalid)
	assert.Equal(t, StateRejected, res.State)
}

func TestReject_SameImageOpenedTwice(t *testing.T) {
	a := open(t, blocks(t, types.FamilyE).UnlockStorage().PutBox(0, 0, testutil.BoxRecord(t, 1, 1)))
	b, err := section.Open(a.Image())
	require.NoError(t, err)
	_, err = run(t, NewRequest(a, b, types.BoxSlot(0, 0), types.BoxSlot(0, 1)))
	require.ErrorIs(t, err, types.ErrDestinationInvalid)
}

func TestOverwrite(t *testing.T) {
	rec := testutil.BoxRecord(t, 1, 100)
	src := open(t, blocks(t, types.FamilyE).PutBox(0, 0, rec))
	dst := open(t, blocks(t, types.FamilyE).UnlockStorage().PutBox(1, 1, testutil.BoxRecord(t, 4, 200)))

	req := NewRequest(src, dst, types.BoxSlot(0, 0), types.BoxSlot(1, 1))
	req.Overwrite = true
	res, err := run(t, req)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "overwrote")

	got, err := dst.BoxRecord(1, 1)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestCopyLeavesSourceUntouched(t *testing.T) {
	rec := testutil.BoxRecord(t, 151, 9)
	src := open(t, blocks(t, types.FamilyFRLG).PutBox(2, 2, rec))
	dst := open(t, blocks(t, types.FamilyRS).UnlockStorage())
	before := src.Image().Bytes()

	req := NewRequest(src, dst, types.BoxSlot(2, 2), types.BoxSlot(0, 0))
	req.Mode = Copy
	_, err := run(t, req)
	require.NoError(t, err)

	assert.Equal(t, before, src.Image().Bytes())
	assert.Equal(t, uint32(10), src.Image().Counter())
	got, err := dst.BoxRecord(0, 0)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestMoveWithinOneSaveCommitsOnce(t *testing.T) {
	rec := testutil.BoxRecord(t, 7, 3)
	s := open(t, blocks(t, types.FamilyE).UnlockStorage().PutBox(0, 0, rec))

	_, err := run(t, NewRequest(s, s, types.BoxSlot(0, 0), types.BoxSlot(5, 29)))
	require.NoError(t, err)
	assert.Equal(t, uint32(11), s.Image().Counter())

	got, err := s.BoxRecord(5, 29)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	got, err = s.BoxRecord(0, 0)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 80), got)

	_, err = run(t, NewRequest(s, s, types.BoxSlot(5, 29), types.BoxSlot(5, 29)))
	require.ErrorIs(t, err, types.ErrDestinationInvalid)
}

func TestRequestConsumedOnce(t *testing.T) {
	src := open(t, blocks(t, types.FamilyE))
	dst := open(t, blocks(t, types.FamilyE).UnlockStorage())
	c := NewCoordinator()

	req := NewRequest(src, dst, types.BoxSlot(0, 0), types.BoxSlot(0, 1))
	_, err := c.Execute(context.Background(), req)
	require.ErrorIs(t, err, types.ErrEmptySource)

	_, err = c.Execute(context.Background(), req)
	require.ErrorIs(t, err, types.ErrState)

	// A fresh struct reusing the id is refused by the same coordinator.
	dup := &Request{ID: req.ID, Src: src, Dst: dst, From: req.From, To: req.To}
	_, err = c.Execute(context.Background(), dup)
	require.ErrorIs(t, err, types.ErrState)
}

func TestPendingEditsRefused(t *testing.T) {
	src := open(t, blocks(t, types.FamilyE).PutBox(0, 0, testutil.BoxRecord(t, 1, 1)))
	dst := open(t, blocks(t, types.FamilyE).UnlockStorage())
	require.True(t, dst.SetFlag(5, true))

	_, err := run(t, NewRequest(src, dst, types.BoxSlot(0, 0), types.BoxSlot(0, 1)))
	require.ErrorIs(t, err, types.ErrState)
}

func TestSecondViewOfDestinationIsReloaded(t *testing.T) {
	x := testutil.BoxRecord(t, 1, 0x11)
	y := testutil.BoxRecord(t, 4, 0x22)
	src1 := open(t, blocks(t, types.FamilyE).PutBox(0, 0, x))
	src2 := open(t, blocks(t, types.FamilyRS).PutBox(0, 0, y))
	dstA := open(t, blocks(t, types.FamilyE).UnlockStorage())
	dstB, err := section.Open(dstA.Image())
	require.NoError(t, err)

	_, err = run(t, NewRequest(src1, dstA, types.BoxSlot(0, 0), types.BoxSlot(1, 0)))
	require.NoError(t, err)
	require.True(t, dstB.Stale())

	_, err = run(t, NewRequest(src2, dstB, types.BoxSlot(0, 0), types.BoxSlot(1, 1)))
	require.NoError(t, err)
	assert.Equal(t, uint32(12), dstA.Image().Counter())

	final, err := section.OpenBytes(dstA.Image().Bytes(), dstA.Layout())
	require.NoError(t, err)
	got, err := final.BoxRecord(1, 0)
	require.NoError(t, err)
	assert.Equal(t, x, got, "first move survives the second")
	got, err = final.BoxRecord(1, 1)
	require.NoError(t, err)
	assert.Equal(t, y, got)

	got, err = src1.BoxRecord(0, 0)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 80), got)
}

func TestStaleViewWithEditsRefused(t *testing.T) {
	src := open(t, blocks(t, types.FamilyE).PutBox(0, 0, testutil.BoxRecord(t, 1, 1)))
	dstA := open(t, blocks(t, types.FamilyE).UnlockStorage())
	dstB, err := section.Open(dstA.Image())
	require.NoError(t, err)
	require.True(t, dstB.SetFlag(5, true))

	_, err = run(t, NewRequest(src, dstA, types.BoxSlot(0, 0), types.BoxSlot(0, 0)))
	require.NoError(t, err)
	before := dstA.Image().Bytes()

	_, err = run(t, NewRequest(src, dstB, types.BoxSlot(0, 1), types.BoxSlot(0, 1)))
	require.ErrorIs(t, err, types.ErrState)
	assert.Equal(t, before, dstA.Image().Bytes())
}

func TestPartialTransfer(t *testing.T) {
	rec := testutil.BoxRecord(t, 9, 9)
	src := open(t, blocks(t, types.FamilyE).PutBox(0, 0, rec), save.WithSink(failSink()))
	dst := open(t, blocks(t, types.FamilyE).UnlockStorage())
	srcBefore := src.Image().Bytes()

	res, err := run(t, NewRequest(src, dst, types.BoxSlot(0, 0), types.BoxSlot(0, 0)))
	require.ErrorIs(t, err, types.ErrPartialTransfer)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, StatePartial, res.State)

	// Destination landed; source is unchanged on disk and in memory.
	assert.Equal(t, uint32(11), dst.Image().Counter())
	got, err := dst.BoxRecord(0, 0)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	assert.Equal(t, srcBefore, src.Image().Bytes())
	got, err = src.BoxRecord(0, 0)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.False(t, src.Dirty())
}

func TestDestinationCommitFailure(t *testing.T) {
	rec := testutil.BoxRecord(t, 9, 9)
	src := open(t, blocks(t, types.FamilyE).PutBox(0, 0, rec))
	dst := open(t, blocks(t, types.FamilyE).UnlockStorage(), save.WithSink(failSink()))
	srcBefore, dstBefore := src.Image().Bytes(), dst.Image().Bytes()

	res, err := run(t, NewRequest(src, dst, types.BoxSlot(0, 0), types.BoxSlot(0, 0)))
	require.Error(t, err)
	require.NotErrorIs(t, err, types.ErrPartialTransfer)
	assert.Equal(t, StateFailed, res.State)

	assert.Equal(t, srcBefore, src.Image().Bytes())
	assert.Equal(t, dstBefore, dst.Image().Bytes())
	assert.False(t, src.Dirty())
	assert.False(t, dst.Dirty())
}

func TestDestinationReadBackMismatch(t *testing.T) {
	rec := testutil.BoxRecord(t, 9, 9)
	src := open(t, blocks(t, types.FamilyE).PutBox(0, 0, rec))
	sink := &writer.MemWriter{Tamper: func(b []byte) { b[format.BankSize+10] ^= 0xFF }}
	dst := open(t, blocks(t, types.FamilyE).UnlockStorage(), save.WithSink(sink))
	srcBefore := src.Image().Bytes()

	res, err := run(t, NewRequest(src, dst, types.BoxSlot(0, 0), types.BoxSlot(0, 0)))
	require.ErrorIs(t, err, types.ErrCommitUnverified)
	assert.Equal(t, StateUnverified, res.State)
	assert.Equal(t, 1, sink.Writes)

	// The source keeps the record so it cannot be lost.
	assert.Equal(t, srcBefore, src.Image().Bytes())
	got, err := src.BoxRecord(0, 0)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.False(t, dst.Dirty())
}

func TestPokedexUpdatedInDestinationCommit(t *testing.T) {
	torchic := testutil.BoxRecord(t, 280, 1) // national 255
	egg := testutil.EggRecord(t, 1, 2)
	src := open(t, blocks(t, types.FamilyRS).PutBox(0, 0, torchic).PutBox(0, 1, egg).PutBox(0, 2, torchic))
	dst := open(t, blocks(t, types.FamilyFRLG).UnlockStorage())

	_, err := run(t, NewRequest(src, dst, types.BoxSlot(0, 0), types.BoxSlot(0, 0)))
	require.NoError(t, err)
	assert.Equal(t, uint32(11), dst.Image().Counter(), "record and Pokédex share one commit")

	reloaded, err := section.OpenBytes(dst.Image().Bytes(), dst.Layout())
	require.NoError(t, err)
	assert.True(t, reloaded.DexOwned(255))
	assert.True(t, reloaded.DexSeen(255))
	assert.False(t, reloaded.DexSeen(280))

	_, err = run(t, NewRequest(src, dst, types.BoxSlot(0, 1), types.BoxSlot(0, 1)))
	require.NoError(t, err)
	assert.False(t, dst.DexSeen(1), "eggs are not registered")

	fresh := open(t, blocks(t, types.FamilyE).UnlockStorage())
	req := NewRequest(src, fresh, types.BoxSlot(0, 2), types.BoxSlot(0, 0))
	req.UpdatePokedex = false
	_, err = run(t, req)
	require.NoError(t, err)
	seen, owned := fresh.DexCounts()
	assert.Zero(t, seen)
	assert.Zero(t, owned)
}

func TestFirstFreeBoxSlot(t *testing.T) {
	rec := testutil.BoxRecord(t, 25, 5)
	src := open(t, blocks(t, types.FamilyE).PutBox(0, 0, rec))
	db := blocks(t, types.FamilyE).UnlockStorage().
		PutBox(0, 0, testutil.BoxRecord(t, 1, 1)).
		PutBox(0, 1, testutil.BoxRecord(t, 4, 2))
	dst := open(t, db)

	res, err := run(t, NewRequest(src, dst, types.BoxSlot(0, 0), AnyBoxSlot))
	require.NoError(t, err)
	assert.Equal(t, types.BoxSlot(0, 2), res.To)
	got, err := dst.BoxRecord(0, 2)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestFirstFreeBoxSlot_AllFull(t *testing.T) {
	src := open(t, blocks(t, types.FamilyE).PutBox(0, 0, testutil.BoxRecord(t, 25, 5)))
	db := blocks(t, types.FamilyE).UnlockStorage()
	filler := testutil.BoxRecord(t, 1, 1)
	for b := range types.BoxCount {
		for i := range types.BoxSlots {
			db.PutBox(b, i, filler)
		}
	}
	dst := open(t, db)

	res, err := run(t, NewRequest(src, dst, types.BoxSlot(0, 0), AnyBoxSlot))
	require.ErrorIs(t, err, types.ErrSlotOccupied)
	assert.Equal(t, StateRejected, res.State)
}

func TestTradeEvolutionReported(t *testing.T) {
	kadabra := testutil.BoxRecord(t, 64, 3)
	src := open(t, blocks(t, types.FamilyFRLG).PutBox(0, 0, kadabra))
	dst := open(t, blocks(t, types.FamilyE).UnlockStorage())

	res, err := run(t, NewRequest(src, dst, types.BoxSlot(0, 0), types.BoxSlot(0, 0)))
	require.NoError(t, err)
	assert.True(t, res.TradeEvolves)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "evolves into #65")

	got, err := dst.BoxRecord(0, 0)
	require.NoError(t, err)
	assert.Equal(t, kadabra, got, "record is stored unevolved")
}

func TestConcurrentOppositeTransfers(t *testing.T) {
	a := open(t, blocks(t, types.FamilyE).UnlockStorage().PutBox(0, 0, testutil.BoxRecord(t, 1, 1)))
	b := open(t, blocks(t, types.FamilyFRLG).UnlockStorage().PutBox(0, 0, testutil.BoxRecord(t, 2, 2)))
	c := NewCoordinator()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, req := range []*Request{
		NewRequest(a, b, types.BoxSlot(0, 0), types.BoxSlot(1, 0)),
		NewRequest(b, a, types.BoxSlot(0, 0), types.BoxSlot(1, 0)),
	} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = c.Execute(context.Background(), req)
		}()
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, uint32(12), a.Image().Counter())
	assert.Equal(t, uint32(12), b.Image().Counter())
}

func TestCancelledContext(t *testing.T) {
	src := open(t, blocks(t, types.FamilyE).PutBox(0, 0, testutil.BoxRecord(t, 1, 1)))
	dst := open(t, blocks(t, types.FamilyE).UnlockStorage())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := NewCoordinator().Execute(ctx, NewRequest(src, dst, types.BoxSlot(0, 0), types.BoxSlot(0, 1)))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateRejected, res.State)
}
