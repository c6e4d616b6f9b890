package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeString(t *testing.T) {
	moment := time.Date(2024, 3, 1, 9, 30, 45, 0, time.UTC)

	assert.Equal(t, TimeString("09:30"), NewTimeString(moment))
}

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid morning", input: "06:00"},
		{name: "valid evening", input: "18:30"},
		{name: "valid midnight", input: "00:00"},
		{name: "valid last minute", input: "23:59"},
		{name: "no leading zero", input: "6:00", wantErr: true},
		{name: "with seconds", input: "06:00:00", wantErr: true},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "10:60", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := NewTimeStringFromString(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, ts.String())
		})
	}
}

func TestTimeString_Minutes(t *testing.T) {
	tests := []struct {
		input TimeString
		want  int
	}{
		{input: "00:00", want: 0},
		{input: "06:00", want: 360},
		{input: "10:30", want: 630},
		{input: "23:59", want: 1439},
	}

	for _, tt := range tests {
		t.Run(tt.input.String(), func(t *testing.T) {
			got, err := tt.input.Minutes()

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	t.Run("within day", func(t *testing.T) {
		got, err := TimeString("10:00").AddMinutes(90)

		require.NoError(t, err)
		assert.Equal(t, TimeString("11:30"), got)
	})

	t.Run("negative shift", func(t *testing.T) {
		got, err := TimeString("10:00").AddMinutes(-30)

		require.NoError(t, err)
		assert.Equal(t, TimeString("09:30"), got)
	})

	t.Run("overflow past midnight", func(t *testing.T) {
		_, err := TimeString("23:30").AddMinutes(60)

		assert.ErrorIs(t, err, ErrOutOfRange)
	})

	t.Run("underflow before midnight", func(t *testing.T) {
		_, err := TimeString("00:30").AddMinutes(-60)

		assert.ErrorIs(t, err, ErrOutOfRange)
	})
}

func TestTimeString_MinutesBetween(t *testing.T) {
	got, err := TimeString("10:00").MinutesBetween("14:30")

	require.NoError(t, err)
	assert.Equal(t, 270, got)

	got, err = TimeString("14:30").MinutesBetween("10:00")

	require.NoError(t, err)
	assert.Equal(t, -270, got)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.True(t, TimeString("18:30").IsAfter("06:00"))
	assert.False(t, TimeString("06:00").IsAfter("06:00"))
}

func TestTimeString_Scan(t *testing.T) {
	t.Run("from time.Time", func(t *testing.T) {
		var ts TimeString
		err := ts.Scan(time.Date(2024, 3, 1, 14, 15, 0, 0, time.UTC))

		require.NoError(t, err)
		assert.Equal(t, TimeString("14:15"), ts)
	})

	t.Run("from string with seconds", func(t *testing.T) {
		var ts TimeString
		err := ts.Scan("10:00:00")

		require.NoError(t, err)
		assert.Equal(t, TimeString("10:00"), ts)
	})

	t.Run("from bytes", func(t *testing.T) {
		var ts TimeString
		err := ts.Scan([]byte("18:30"))

		require.NoError(t, err)
		assert.Equal(t, TimeString("18:30"), ts)
	})

	t.Run("nil resets value", func(t *testing.T) {
		ts := TimeString("10:00")
		err := ts.Scan(nil)

		require.NoError(t, err)
		assert.True(t, ts.IsZero())
	})

	t.Run("unsupported type", func(t *testing.T) {
		var ts TimeString
		err := ts.Scan(42)

		assert.ErrorIs(t, err, ErrInvalidFormat)
	})
}

func TestTimeString_Value(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		v, err := TimeString("10:00").Value()

		require.NoError(t, err)
		assert.Equal(t, "10:00", v)
	})

	t.Run("zero maps to null", func(t *testing.T) {
		v, err := TimeString("").Value()

		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("invalid rejected", func(t *testing.T) {
		_, err := TimeString("25:00").Value()

		assert.ErrorIs(t, err, ErrInvalidFormat)
	})
}
