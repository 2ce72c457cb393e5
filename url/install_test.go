package url

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/packit/packit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualSelection(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		force    bool
		want     *core.Selection
		wantCode errbuilder.ErrCode
	}{
		{
			name: "direct link",
			url:  "https://example.com/files/my%20mod-1.0.jar",
			want: &core.Selection{
				Name:     "mymod",
				Title:    "mymod",
				FileName: "my mod-1.0.jar",
				URL:      "https://example.com/files/my%20mod-1.0.jar",
			},
		},
		{
			name:     "unsupported scheme",
			url:      "ftp://example.com/mod.jar",
			wantCode: errbuilder.CodeInvalidArgument,
		},
		{
			name:     "supported site",
			url:      "https://github.com/owner/repo/releases/download/v1/mod.jar",
			wantCode: errbuilder.CodeInvalidArgument,
		},
		{
			name:  "supported site with force",
			url:   "https://github.com/owner/repo/releases/download/v1/mod.jar",
			force: true,
			want: &core.Selection{
				Name:     "mymod",
				Title:    "mymod",
				FileName: "mod.jar",
				URL:      "https://github.com/owner/repo/releases/download/v1/mod.jar",
			},
		},
		{
			name:     "no file name",
			url:      "https://example.com/",
			wantCode: errbuilder.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := manualSelection("mymod", tt.url, tt.force)
			if tt.want == nil {
				require.Error(t, err)
				if diff := cmp.Diff(tt.wantCode, errbuilder.CodeOf(err)); diff != "" {
					t.Errorf("code mismatch (-want +got):\n%s", diff)
				}
				return
			}
			require.NoError(t, err)
			assert.Nil(t, sel.Update)
			if diff := cmp.Diff(tt.want, sel); diff != "" {
				t.Errorf("selection mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
