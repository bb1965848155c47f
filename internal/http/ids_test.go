package http

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw     string
		want    flexibleID
		wantErr bool
	}{
		{raw: `12`, want: 12},
		{raw: `"12"`, want: 12},
		{raw: `" 7 "`, wantErr: true},
		{raw: `null`, want: 0},
		{raw: `""`, want: 0},
		{raw: `"abc"`, wantErr: true},
		{raw: `-1`, wantErr: true},
		{raw: `1.5`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var body struct {
				ID flexibleID `json:"id"`
			}
			err := json.Unmarshal([]byte(`{"id":`+tt.raw+`}`), &body)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, body.ID)
		})
	}
}
