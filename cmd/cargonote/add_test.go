package main

import (
	"testing"

	"github.com/cargonote/cargonote/internal/common"
	"github.com/cargonote/cargonote/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSubcommandsCoverEveryType(t *testing.T) {
	cmd := addCmd()

	uses := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		uses[sub.Name()] = true
	}

	for _, want := range []string{
		"transport", "waiting", "deadhead", "trip-cancelled", "trip-end",
		"fuel", "income", "expense", "supply",
	} {
		assert.True(t, uses[want], "missing add subcommand %q", want)
	}
}

func TestMoneyFlag(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		value   string
		want    int64
	}{
		{name: "display units scale up", value: "5.25", want: 52_500},
		{name: "empty default is zero", value: "", want: 0},
		{name: "negative rejected", value: "-3", wantErr: common.ErrNegativeAmount},
		{name: "garbage rejected", value: "abc", wantErr: common.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := addTransportCmd()
			require.NoError(t, cmd.ParseFlags([]string{"--fare", tt.value}))

			got, err := moneyFlag(cmd, "fare")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), "--fare")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRouteRecordFromFlags(t *testing.T) {
	cmd := addTransportCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"--date", "2024-03-10",
		"--time", "09:30",
		"--from", "안산",
		"--to", "이천",
		"--distance", "120.5",
	}))

	r := routeRecord(cmd, model.TypeTransport)
	assert.Equal(t, "2024-03-10", r.Date)
	assert.Equal(t, "09:30", r.Time)
	assert.Equal(t, model.TypeTransport, r.Type)
	require.NotNil(t, r.Route)
	assert.Equal(t, "안산", r.Route.From)
	assert.Equal(t, "이천", r.Route.To)
	assert.InDelta(t, 120.5, r.Route.Distance, 0.0001)
}

func TestRouteRecordWithoutRouteFlags(t *testing.T) {
	cmd := addDeadheadCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--date", "2024-03-10", "--time", "11:00"}))

	r := routeRecord(cmd, model.TypeDeadhead)
	assert.Nil(t, r.Route)
}

func TestItemRecordAmountSide(t *testing.T) {
	tests := []struct {
		name       string
		typ        model.Type
		wantIncome int64
		wantCost   int64
	}{
		{name: "income credits", typ: model.TypeIncome, wantIncome: 30_000},
		{name: "expense debits", typ: model.TypeExpense, wantCost: 30_000},
		{name: "supply debits", typ: model.TypeSupply, wantCost: 30_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := addIncomeCmd()
			switch tt.typ {
			case model.TypeExpense:
				cmd = addExpenseCmd()
			case model.TypeSupply:
				cmd = addSupplyCmd()
			}
			require.NoError(t, cmd.ParseFlags([]string{"--item", "세차", "--amount", "3"}))

			r, err := itemRecord(cmd, tt.typ)
			require.NoError(t, err)
			assert.Equal(t, "세차", r.Item)
			assert.Equal(t, tt.wantIncome, r.Income)
			assert.Equal(t, tt.wantCost, r.Cost)
		})
	}
}

func TestResolvedStampDefaultsToNow(t *testing.T) {
	cmd := addTripEndCmd()
	require.NoError(t, cmd.ParseFlags(nil))

	date, clock := resolvedStamp(cmd)
	assert.Len(t, date, 10)
	assert.Len(t, clock, 5)

	r := model.Record{Date: date, Time: clock, Type: model.TypeTripEnd}
	assert.NoError(t, r.Validate())
}
