package uploadcsv_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	errorsfeature "github.com/dalemusser/schoolfinder/internal/app/features/errors"
	"github.com/dalemusser/schoolfinder/internal/app/features/uploadcsv"
	regionstore "github.com/dalemusser/schoolfinder/internal/app/store/regions"
	schoolstore "github.com/dalemusser/schoolfinder/internal/app/store/schools"
	"github.com/dalemusser/schoolfinder/internal/app/system/auth"
	"github.com/dalemusser/schoolfinder/internal/app/system/imports"
	"github.com/dalemusser/schoolfinder/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const adminToken = "test-admin-token"

const regionsSheet = `REGION,REGION NAME,LEA,LA Name
E12000007,London,202,Camden
E12000007,London,201,City of London
E12000001,North East,841,Darlington
`

type summaryBody struct {
	Batch   string `json:"batch"`
	Kind    string `json:"kind"`
	Rows    int    `json:"rows"`
	Records int    `json:"records"`
	DryRun  bool   `json:"dryRun"`
	Errors  []struct {
		Line   int    `json:"line"`
		Reason string `json:"reason"`
	} `json:"errors"`
}

func newTestRouter(t *testing.T, hash string) (http.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := uploadcsv.NewHandler(imports.New(db, nil, logger), errorsfeature.NewErrorLogger(logger), logger)
	return uploadcsv.Routes(h, auth.NewGuard(hash, logger), nil), db
}

func tokenHash(t *testing.T) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(adminToken), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword failed: %v", err)
	}
	return string(h)
}

func post(router http.Handler, target, contentType, body, token string) *testutil.ResponseRecorder {
	req := testutil.NewBodyRequest("POST", target, contentType, strings.NewReader(body))
	if token != "" {
		testutil.WithBearer(req, token)
	}
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeSummary(t *testing.T, rec *testutil.ResponseRecorder) summaryBody {
	t.Helper()
	var s summaryBody
	if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode summary: %v (%s)", err, rec.Body.String())
	}
	return s
}

func TestImportRegions_RawBody(t *testing.T) {
	router, db := newTestRouter(t, tokenHash(t))

	rec := post(router, "/regions", "text/csv", regionsSheet, adminToken)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertJSON(t)

	sum := decodeSummary(t, rec)
	if sum.Kind != "regions" || sum.Rows != 3 || sum.Records != 2 || sum.Batch == "" {
		t.Errorf("summary: got %+v", sum)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	london, err := regionstore.New(db).GetByCode(ctx, "E12000007")
	if err != nil {
		t.Fatalf("GetByCode failed: %v", err)
	}
	if len(london.SubRegions) != 2 || london.ImportBatch != sum.Batch {
		t.Errorf("stored region: got %+v", london)
	}
}

func TestImportRegions_Multipart(t *testing.T) {
	router, db := newTestRouter(t, tokenHash(t))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "regions.csv")
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	fw.Write([]byte(regionsSheet))
	mw.Close()

	rec := post(router, "/regions", mw.FormDataContentType(), buf.String(), adminToken)
	rec.AssertStatus(t, http.StatusOK)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	list, err := regionstore.New(db).List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("got %d regions, want 2", len(list))
	}
}

func TestImportRegions_MultipartMissingFile(t *testing.T) {
	router, _ := newTestRouter(t, tokenHash(t))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("other", "x")
	mw.Close()

	rec := post(router, "/regions", mw.FormDataContentType(), buf.String(), adminToken)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestImportRegions_RejectedRows(t *testing.T) {
	router, db := newTestRouter(t, tokenHash(t))

	sheet := regionsSheet + "E12000009,South West,,Bath\n"
	rec := post(router, "/regions", "text/csv", sheet, adminToken)
	rec.AssertStatus(t, http.StatusUnprocessableEntity)

	sum := decodeSummary(t, rec)
	if len(sum.Errors) != 1 || sum.Errors[0].Line != 5 || sum.Errors[0].Reason != "missing LEA code" {
		t.Errorf("errors: got %+v", sum.Errors)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	list, _ := regionstore.New(db).List(ctx)
	if len(list) != 0 {
		t.Errorf("expected no writes, found %d regions", len(list))
	}
}

func TestImportRegions_MissingColumns(t *testing.T) {
	router, _ := newTestRouter(t, tokenHash(t))

	rec := post(router, "/regions", "text/csv", "REGION,LEA\nE1,841\n", adminToken)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "REGION NAME")
}

func TestImportRegions_MalformedRow(t *testing.T) {
	router, db := newTestRouter(t, tokenHash(t))

	sheet := regionsSheet + "E12000001,North \"East,841,Darlington\n"
	rec := post(router, "/regions", "text/csv", sheet, adminToken)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "line 5")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	list, _ := regionstore.New(db).List(ctx)
	if len(list) != 0 {
		t.Errorf("expected no writes, found %d regions", len(list))
	}
}

func TestImportRegions_DryRun(t *testing.T) {
	router, db := newTestRouter(t, tokenHash(t))

	rec := post(router, "/regions?dry_run=true", "text/csv", regionsSheet, adminToken)
	rec.AssertStatus(t, http.StatusOK)

	sum := decodeSummary(t, rec)
	if !sum.DryRun || sum.Records != 2 {
		t.Errorf("summary: got %+v", sum)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	list, _ := regionstore.New(db).List(ctx)
	if len(list) != 0 {
		t.Errorf("dry run wrote %d regions", len(list))
	}
}

func TestImportSchools(t *testing.T) {
	router, db := newTestRouter(t, tokenHash(t))

	sheet := `URN,EstablishmentName,TypeOfEstablishment (name),GOR (code),LA (code),Postcode,Latitude,Longitude
100000,The Aldgate School,Voluntary aided school,E12000007,201,EC3A 5DE,51.5136,-0.0764
100001,City of London School for Girls,Other independent school,E12000007,201,EC2Y 8BB,,
`
	rec := post(router, "/schools", "text/csv", sheet, adminToken)
	rec.AssertStatus(t, http.StatusOK)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	school, err := schoolstore.New(db).GetByID(ctx, "100000")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if school.Location == nil || school.TypeCI == "" {
		t.Errorf("stored school: got %+v", school)
	}
}

func TestImport_Auth(t *testing.T) {
	tests := []struct {
		name       string
		hash       bool
		token      string
		wantStatus int
	}{
		{"no token", true, "", http.StatusUnauthorized},
		{"wrong token", true, "nope", http.StatusUnauthorized},
		{"admin disabled", false, adminToken, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := ""
			if tt.hash {
				hash = tokenHash(t)
			}
			router, _ := newTestRouter(t, hash)

			rec := post(router, "/regions", "text/csv", regionsSheet, tt.token)
			rec.AssertStatus(t, tt.wantStatus)
		})
	}
}
