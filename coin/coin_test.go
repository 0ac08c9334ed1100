package coin

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeHartnell/cw-quadratic-funding/errors"
)

func TestCoinAdd(t *testing.T) {
	cases := map[string]struct {
		a, b    Coin
		want    Coin
		wantErr *errors.Error
	}{
		"same denom": {
			a:    NewCoin(100, "ucosm"),
			b:    NewCoin(25, "ucosm"),
			want: NewCoin(125, "ucosm"),
		},
		"zero without denom on the right": {
			a:    NewCoin(100, "ucosm"),
			b:    Coin{},
			want: NewCoin(100, "ucosm"),
		},
		"zero without denom on the left": {
			a:    Coin{},
			b:    NewCoin(100, "ucosm"),
			want: NewCoin(100, "ucosm"),
		},
		"denomination mismatch": {
			a:       NewCoin(100, "ucosm"),
			b:       NewCoin(100, "uatom"),
			wantErr: errors.ErrCurrency,
		},
		"overflow": {
			a:       NewCoin(math.MaxUint64, "ucosm"),
			b:       NewCoin(1, "ucosm"),
			wantErr: errors.ErrOverflow,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := tc.a.Add(tc.b)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCoinSubtract(t *testing.T) {
	got, err := NewCoin(100, "ucosm").Subtract(NewCoin(40, "ucosm"))
	require.NoError(t, err)
	assert.Equal(t, NewCoin(60, "ucosm"), got)

	_, err = NewCoin(100, "ucosm").Subtract(NewCoin(101, "ucosm"))
	assert.True(t, errors.ErrAmount.Is(err))

	_, err = NewCoin(100, "ucosm").Subtract(NewCoin(1, "uatom"))
	assert.True(t, errors.ErrCurrency.Is(err))
}

func TestCoinValidate(t *testing.T) {
	assert.NoError(t, NewCoin(0, "ucosm").Validate())
	assert.Error(t, NewCoin(1, "").Validate())
	assert.Error(t, NewCoin(1, "UCOSM").Validate())
	assert.Error(t, NewCoin(1, "xy").Validate())
	assert.Error(t, NewCoin(1, "muchtoolongdenom").Validate())
}

func TestCoinComparisons(t *testing.T) {
	assert.True(t, NewCoin(10, "ucosm").IsGTE(NewCoin(10, "ucosm")))
	assert.True(t, NewCoin(11, "ucosm").IsGTE(NewCoin(10, "ucosm")))
	assert.False(t, NewCoin(9, "ucosm").IsGTE(NewCoin(10, "ucosm")))
	assert.False(t, NewCoin(10, "uatom").IsGTE(NewCoin(10, "ucosm")))

	assert.True(t, NewCoin(0, "ucosm").IsZero())
	assert.True(t, NewCoin(1, "ucosm").IsPositive())
	assert.True(t, NewCoin(1, "ucosm").Equals(NewCoin(1, "ucosm")))
	assert.False(t, NewCoin(1, "ucosm").Equals(NewCoin(1, "uatom")))
}

func TestParseHumanFormat(t *testing.T) {
	got, err := ParseHumanFormat("1200 ucosm")
	require.NoError(t, err)
	assert.Equal(t, NewCoin(1200, "ucosm"), got)
	assert.Equal(t, "1200 ucosm", got.String())

	for _, raw := range []string{"", "ucosm", "12", "-5 ucosm", "1.5 ucosm", "12 UCOSM"} {
		if _, err := ParseHumanFormat(raw); err == nil {
			t.Errorf("%q: expected an error", raw)
		}
	}
}

func TestCoinUnmarshalJSON(t *testing.T) {
	var fromString Coin
	require.NoError(t, json.Unmarshal([]byte(`"1200 ucosm"`), &fromString))
	assert.Equal(t, NewCoin(1200, "ucosm"), fromString)

	var fromObject Coin
	require.NoError(t, json.Unmarshal([]byte(`{"amount": 1200, "denom": "ucosm"}`), &fromObject))
	assert.Equal(t, NewCoin(1200, "ucosm"), fromObject)

	var bad Coin
	assert.Error(t, json.Unmarshal([]byte(`"one ucosm"`), &bad))
}
