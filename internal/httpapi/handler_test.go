package httpapi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpattn/coreqc/internal/domain"
	"github.com/rpattn/coreqc/internal/qc"
	"github.com/rpattn/coreqc/internal/report"
)

const uploadLog = `WELL,DEPTH,CREP_LAB_NAME,CREP_TESTTYPE,CREP_SAMPLETYPE,CREP_TEST_DATE,SAMPLE_ID,RHOB
,M,,,,,,G/CC
W-1,100,CORELAB,DENSITY,PLUG,2024-01-15,S1,2.3
`

func newTestService(t *testing.T) *qc.Service {
	t.Helper()
	names := []string{"WELL", "DEPTH", domain.ColumnLabName, domain.ColumnTestType, domain.ColumnSampleType, domain.ColumnTestDate, "SAMPLE_ID"}
	template := make([]domain.TemplateColumn, len(names))
	for i, name := range names {
		template[i] = domain.TemplateColumn{Name: name}
	}
	template[1].Unit = "M"

	catalog := &domain.SchemaCatalog{
		Template: template,
		Accepted: map[domain.Field]map[string]struct{}{
			domain.FieldLabName:    {"CORELAB": {}},
			domain.FieldTestType:   {"DENSITY": {}},
			domain.FieldSampleType: {"PLUG": {}},
		},
		Mnemonics: map[string]map[string]domain.MnemonicRule{
			"DENSITY": {"RHOB": {Unit: "G/CC"}},
		},
	}
	service, err := qc.NewService(catalog, domain.DefaultLimits())
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return service
}

func upload(t *testing.T, name, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/validate", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestValidateUpload(t *testing.T) {
	router := NewRouter(newTestService(t), []string{"*"}, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, upload(t, "well.csv", uploadLog))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result report.LogResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Path != "well.csv" || result.Identity.TestType != "DENSITY" {
		t.Fatalf("unexpected result: %+v", result)
	}
	records := result.Report.Records()
	if len(records) != 1 || records[0].Subject != domain.ColumnTestDate || records[0].Severity != domain.SeverityError {
		t.Fatalf("expected only the bad test date, got %+v", records)
	}
}

func TestValidateRejectsBadRequests(t *testing.T) {
	router := NewRouter(newTestService(t), []string{"*"}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, upload(t, "well.txt", uploadLog))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for wrong extension, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, upload(t, "empty.csv", ""))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty log, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/validate", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRouter(newTestService(t), nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
