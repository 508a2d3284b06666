package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type linkParams struct {
	ResourceID string `binding:"required,resource_id"`
	Role       string `binding:"required,share_role"`
	Action     string `binding:"share_action"`
}

func TestCustomValidator(t *testing.T) {
	v := NewCustomValidator()

	tests := []struct {
		name    string
		params  linkParams
		wantErr bool
	}{
		{"ok viewer", linkParams{ResourceID: "obj-1", Role: "viewer"}, false},
		{"ok editor edit", linkParams{ResourceID: "obj_2", Role: "editor", Action: "edit"}, false},
		{"bad role", linkParams{ResourceID: "obj-1", Role: "owner"}, true},
		{"bad id", linkParams{ResourceID: "obj/1", Role: "viewer"}, true},
		{"bad action", linkParams{ResourceID: "obj-1", Role: "viewer", Action: "delete"}, true},
		{"missing", linkParams{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.params
			err := v.ValidateStruct(&p)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCustomValidator_NonStruct(t *testing.T) {
	v := NewCustomValidator()
	assert.NoError(t, v.ValidateStruct(nil))
	assert.NoError(t, v.ValidateStruct("x"))
	var p *linkParams
	assert.NoError(t, v.ValidateStruct(p))
	assert.NotNil(t, v.Engine())
}
