package marketplace

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestSetCommissionAdminOnly(t *testing.T) {
	f := newFixture(t, defaultConfig())

	require.ErrorIs(t, f.market.SetCommission(strangerAddr, 10), ErrNotAuthorized)
	require.ErrorIs(t, f.market.SetCommission(adminAddr, -1), ErrInvalidArgument)
	require.ErrorIs(t, f.market.SetCommission(adminAddr, 101), ErrInvalidArgument)

	// 边界值 0 和 100 均合法
	require.NoError(t, f.market.SetCommission(adminAddr, 0))
	require.NoError(t, f.market.SetCommission(adminAddr, 100))
	require.Equal(t, int64(100), f.market.GetPolicy().CommissionPercent)
}

func TestSetBankAddress(t *testing.T) {
	f := newFixture(t, defaultConfig())

	require.ErrorIs(t, f.market.SetBankAddress(strangerAddr, bankAddr), ErrNotAuthorized)
	require.ErrorIs(t, f.market.SetBankAddress(adminAddr, common.Address{}), ErrInvalidArgument)

	newBank := common.HexToAddress("0x00000000000000000000000000000000000000b2")
	require.NoError(t, f.market.SetBankAddress(adminAddr, newBank))
	require.Equal(t, newBank, f.market.GetPolicy().Bank)
}

func TestAllowlistLifecycle(t *testing.T) {
	f := newFixture(t, defaultConfig())

	require.ErrorIs(t, f.market.RestrictToContract(strangerAddr, collectionA), ErrNotAuthorized)
	require.ErrorIs(t, f.market.RestrictToContract(adminAddr, common.Address{}), ErrInvalidArgument)

	require.NoError(t, f.market.RestrictToContract(adminAddr, collectionA))
	require.NoError(t, f.market.RestrictToContract(adminAddr, collectionB))
	p := f.market.GetPolicy()
	require.Len(t, p.Allowed, 2)

	require.ErrorIs(t, f.market.AcceptAllContracts(strangerAddr), ErrNotAuthorized)
	require.NoError(t, f.market.AcceptAllContracts(adminAddr))
	require.Empty(t, f.market.GetPolicy().Allowed)
}
