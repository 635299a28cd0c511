package core

import "testing"

func TestCheckDuplicateNames(t *testing.T) {
	tests := []struct {
		name    string
		pages   []PageDescriptor
		wantErr bool
	}{
		{
			name: "unique names pass",
			pages: []PageDescriptor{
				{SourcePath: "pages/index.tsx", LogicalName: "index"},
				{SourcePath: "pages/about.tsx", LogicalName: "about"},
			},
		},
		{
			name: "extension twins collide",
			pages: []PageDescriptor{
				{SourcePath: "pages/about.tsx", LogicalName: "about"},
				{SourcePath: "pages/about.ts", LogicalName: "about"},
			},
			wantErr: true,
		},
		{
			name: "markdown twin collides",
			pages: []PageDescriptor{
				{SourcePath: "pages/docs.tsx", LogicalName: "docs", Kind: KindComponent},
				{SourcePath: "pages/docs.md", LogicalName: "docs", Kind: KindMarkdown},
			},
			wantErr: true,
		},
		{
			name:  "empty set passes",
			pages: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDuplicateNames(tt.pages)
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
