package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func metadataBackend(edaToolsBroken bool) chi.Router {
	r := chi.NewRouter()
	r.Get("/api/v1/metadata/platforms", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`["ASIC","FPGA","SoC"]`))
	})
	r.Get("/api/v1/metadata/eda-tools", func(w http.ResponseWriter, req *http.Request) {
		if edaToolsBroken {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"detail":"boom"}`))
			return
		}
		w.Write([]byte(`["Innovus","Vivado","Fusion Compiler"]`))
	})
	r.Get("/api/v1/metadata/project-types", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`["TapeOut","LintOnly"]`))
	})
	r.Get("/api/v1/metadata/project-statuses", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`["planning","active","completed","archived"]`))
	})
	return r
}

func TestMetadataLoadsAllEnums(t *testing.T) {
	s := NewMetadata(newTestDispatcher(t, metadataBackend(false)), newTestCache(t), testLogger())

	enums, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"ASIC", "FPGA", "SoC"}, enums.Platforms)
	require.Equal(t, []string{"Innovus", "Vivado", "Fusion Compiler"}, enums.EDATools)
	require.Equal(t, []string{"TapeOut", "LintOnly"}, enums.ProjectTypes)
	require.Len(t, enums.ProjectStatuses, 4)
	require.Equal(t, enums, s.Enums())
}

func TestMetadataFailsWhenOneEndpointFails(t *testing.T) {
	s := NewMetadata(newTestDispatcher(t, metadataBackend(true)), newTestCache(t), testLogger())

	_, err := s.Load(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")
}
