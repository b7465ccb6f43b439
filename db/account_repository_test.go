package db

import (
	"context"
	"testing"

	"league/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockTx_UnknownAccount(t *testing.T) {
	f := newFixture(t)
	conn := getDB(t)
	ctx := context.Background()

	tx, err := conn.Conn.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	err = f.accounts.LockTx(ctx, tx, []int64{f.buyer.ID, 1 << 60})
	assert.ErrorIs(t, err, entities.ErrAccountNotFound)
}

func TestLockTx_RepeatedIDs(t *testing.T) {
	f := newFixture(t)
	conn := getDB(t)
	ctx := context.Background()

	tx, err := conn.Conn.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	// a promoter settling their own charge appears twice in the list
	err = f.accounts.LockTx(ctx, tx, []int64{f.promoter.ID, f.promoter.ID})
	assert.NoError(t, err)
}
