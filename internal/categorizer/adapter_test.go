package categorizer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finopsia/finopsia/internal/common"
	"github.com/finopsia/finopsia/internal/model"
)

func trainingRows() []model.LabeledRow {
	return []model.LabeledRow{
		{Description: "coffee at blue bottle", Category: "dining"},
		{Description: "espresso bar downtown", Category: "dining"},
		{Description: "lunch cafe receipt", Category: "dining"},
		{Description: "grocery store weekly run", Category: "groceries"},
		{Description: "supermarket grocery haul", Category: "groceries"},
		{Description: "grocery delivery order", Category: "groceries"},
	}
}

func TestAdapter_Train_InvalidData(t *testing.T) {
	adapter := NewAdapter()
	ctx := context.Background()

	tests := []struct {
		name string
		rows []model.LabeledRow
	}{
		{
			name: "no rows",
			rows: nil,
		},
		{
			name: "missing description",
			rows: []model.LabeledRow{{Description: "", Category: "dining"}},
		},
		{
			name: "missing category",
			rows: []model.LabeledRow{{Description: "coffee", Category: ""}},
		},
		{
			name: "blank category",
			rows: []model.LabeledRow{
				{Description: "coffee", Category: "dining"},
				{Description: "bagel", Category: "   "},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := adapter.Train(ctx, tt.rows)
			assert.True(t, errors.Is(err, common.ErrInvalidTrainingData))
		})
	}
}

func TestAdapter_Predict_RulesFirst(t *testing.T) {
	adapter := NewAdapter()
	ctx := context.Background()

	m, err := adapter.Train(ctx, trainingRows())
	require.NoError(t, err)

	tests := []struct {
		name string
		row  model.PredictRow
		want string
	}{
		{
			name: "salary keyword",
			row:  model.PredictRow{Description: "ACME payroll June", Direction: model.DirectionInflow},
			want: "salary",
		},
		{
			name: "rent keyword",
			row:  model.PredictRow{Description: "monthly RENT payment", Direction: model.DirectionOutflow},
			want: "rent",
		},
		{
			name: "transport keyword",
			row:  model.PredictRow{Description: "uber trip home", Direction: model.DirectionOutflow},
			want: "transport",
		},
		{
			name: "empty description inflow",
			row:  model.PredictRow{Description: "", Direction: model.DirectionInflow},
			want: "revenue",
		},
		{
			name: "placeholder description outflow",
			row:  model.PredictRow{Description: "n/a", Direction: model.DirectionOutflow},
			want: "miscellaneous",
		},
		{
			name: "model fallback",
			row:  model.PredictRow{Description: "grocery store run", Direction: model.DirectionOutflow},
			want: "groceries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := adapter.Predict(ctx, []model.PredictRow{tt.row}, m)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestAdapter_Predict_OrderPreserving(t *testing.T) {
	adapter := NewAdapter()
	ctx := context.Background()

	m, err := adapter.Train(ctx, trainingRows())
	require.NoError(t, err)

	rows := []model.PredictRow{
		{Description: "payroll deposit", Direction: model.DirectionInflow},
		{Description: "espresso coffee bar", Direction: model.DirectionOutflow},
		{Description: "grocery supermarket", Direction: model.DirectionOutflow},
		{Description: "electricity bill", Direction: model.DirectionOutflow},
	}

	got, err := adapter.Predict(ctx, rows, m)
	require.NoError(t, err)

	assert.Equal(t, []string{"salary", "dining", "groceries", "utilities"}, got)
}

func TestAdapter_Predict_NilModel(t *testing.T) {
	adapter := NewAdapter()

	_, err := adapter.Predict(context.Background(), []model.PredictRow{{Description: "coffee"}}, nil)
	assert.True(t, errors.Is(err, common.ErrInvalidRequest))
}

func TestModel_MarshalRoundTrip(t *testing.T) {
	adapter := NewAdapter()
	ctx := context.Background()

	m, err := adapter.Train(ctx, trainingRows())
	require.NoError(t, err)

	data, err := m.Marshal()
	require.NoError(t, err)

	restored, err := UnmarshalModel(data)
	require.NoError(t, err)

	rows := []model.PredictRow{{Description: "grocery run", Direction: model.DirectionOutflow}}
	want, err := adapter.Predict(ctx, rows, m)
	require.NoError(t, err)
	got, err := adapter.Predict(ctx, rows, restored)
	require.NoError(t, err)

	assert.Equal(t, want, got)
}
