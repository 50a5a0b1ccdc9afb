package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fuelcli/internal/app"
)

func TestRunFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"help", []string{"-h"}, app.ExitOK},
		{"unknown flag", []string{"-bogus"}, app.ExitConfig},
		{"invalid format", []string{"-format", "pdf"}, app.ExitConfig},
		{"invalid date", []string{"-date", "31/01/2024"}, app.ExitConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(tt.args))
		})
	}
}
