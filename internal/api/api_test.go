package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/dowan1041/ocie-helper/internal/auth"
	"github.com/dowan1041/ocie-helper/internal/blob"
	"github.com/dowan1041/ocie-helper/internal/catalog"
	"github.com/dowan1041/ocie-helper/internal/db"
	"github.com/dowan1041/ocie-helper/internal/model"
)

const (
	testSessionSecret = "test-secret"
	testSitePasscode  = "site-pass"
	testWritePasscode = "write-pass"
)

type testServer struct {
	*httptest.Server
	catalog *catalog.Service
}

func newTestServer(t *testing.T, sitePasscode, writePasscode string) *testServer {
	t.Helper()
	blobs, err := blob.NewDiskStore(t.TempDir(), "/images")
	if err != nil {
		t.Fatalf("creating disk store: %v", err)
	}
	svc := &catalog.Service{DB: db.NewTestDB(t), Blobs: blobs}
	router := NewRouter(svc, testSessionSecret,
		auth.NewGate(auth.ScopeSite, sitePasscode),
		auth.NewGate(auth.ScopeWrite, writePasscode),
	)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testServer{Server: server, catalog: svc}
}

// verify posts a passcode and returns the response and decoded body.
func verify(t *testing.T, client *http.Client, url string, body any) (*http.Response, verifyResponse) {
	t.Helper()
	data, _ := json.Marshal(body)
	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("verify request: %v", err)
	}
	defer resp.Body.Close()
	var out verifyResponse
	json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func grantToken(t *testing.T, s *testServer, scope, passcode string) string {
	t.Helper()
	resp, out := verify(t, http.DefaultClient, s.URL+"/api/auth/verify-"+scope, map[string]string{"passcode": passcode})
	if resp.StatusCode != http.StatusOK || out.Token == "" {
		t.Fatalf("verify-%s: status %d, token %q", scope, resp.StatusCode, out.Token)
	}
	return out.Token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func addEquipment(t *testing.T, s *testServer, token string, body map[string]any) (int, map[string]any) {
	t.Helper()
	req, _ := authRequest("POST", s.URL+"/api/equipment", token, body)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("add request: %v", err)
	}
	defer resp.Body.Close()
	var out map[string]any
	json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestVerifyEndpoints(t *testing.T) {
	s := newTestServer(t, testSitePasscode, testWritePasscode)

	resp, out := verify(t, http.DefaultClient, s.URL+"/api/auth/verify-write", map[string]string{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing passcode, got %d", resp.StatusCode)
	}

	resp, out = verify(t, http.DefaultClient, s.URL+"/api/auth/verify-write", map[string]string{"passcode": testSitePasscode})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong passcode, got %d", resp.StatusCode)
	}
	if out.Success || out.Error != "Invalid passcode" {
		t.Errorf("unexpected body for wrong passcode: %+v", out)
	}

	resp, out = verify(t, http.DefaultClient, s.URL+"/api/auth/verify-write", map[string]string{"passcode": testWritePasscode})
	if resp.StatusCode != http.StatusOK || !out.Success || out.Token == "" {
		t.Fatalf("expected success, got %d %+v", resp.StatusCode, out)
	}
	var writeCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName(auth.ScopeWrite) {
			writeCookie = c
		}
	}
	if writeCookie == nil {
		t.Fatal("write grant cookie not set")
	}
	if writeCookie.MaxAge != 0 {
		t.Errorf("write grant should be a session cookie, got MaxAge %d", writeCookie.MaxAge)
	}

	resp, _ = verify(t, http.DefaultClient, s.URL+"/api/auth/verify-site", map[string]string{"passcode": testSitePasscode})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for site passcode, got %d", resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName(auth.ScopeSite) && c.MaxAge <= 0 {
			t.Errorf("site grant should persist, got MaxAge %d", c.MaxAge)
		}
	}
}

func TestGrantsRequired(t *testing.T) {
	s := newTestServer(t, testSitePasscode, testWritePasscode)
	siteToken := grantToken(t, s, auth.ScopeSite, testSitePasscode)

	resp, _ := http.Get(s.URL + "/api/equipment")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without site grant, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ := authRequest("GET", s.URL+"/api/equipment", siteToken, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 with site grant, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// A site grant does not allow writes.
	status, _ := addEquipment(t, s, siteToken, map[string]any{
		"lin": "DA150J", "nomenclature": "BAG,DUFFEL", "partialNsn": "8465",
	})
	if status != http.StatusUnauthorized {
		t.Errorf("expected 401 for write with site grant, got %d", status)
	}
}

func TestCookieGrant(t *testing.T) {
	s := newTestServer(t, testSitePasscode, testWritePasscode)
	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	verify(t, client, s.URL+"/api/auth/verify-site", map[string]string{"passcode": testSitePasscode})

	resp, err := client.Get(s.URL + "/api/equipment")
	if err != nil {
		t.Fatalf("list request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 with site cookie, got %d", resp.StatusCode)
	}
}

func TestAddThenListEquipment(t *testing.T) {
	s := newTestServer(t, "", testWritePasscode)
	token := grantToken(t, s, auth.ScopeWrite, testWritePasscode)

	status, out := addEquipment(t, s, token, map[string]any{
		"lin":          "DA150J/B14729",
		"nomenclature": "BAG,DUFFEL",
		"partialNsn":   "8465",
		"anotherName":  "Duffel",
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, out)
	}
	if out["success"] != true || out["message"] != "Item added successfully" {
		t.Errorf("unexpected body: %v", out)
	}

	status, _ = addEquipment(t, s, token, map[string]any{
		"lin":          []string{"C12345"},
		"nomenclature": "CANTEEN,WATER",
		"partialNsn":   "0001",
		"size":         "1 QT",
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200 for second add, got %d", status)
	}

	// Site gate is disabled, so no grant is needed to read.
	resp, err := http.Get(s.URL + "/api/equipment")
	if err != nil {
		t.Fatalf("list request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var items []model.Equipment
	json.NewDecoder(resp.Body).Decode(&items)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	for _, item := range items {
		if item.ID == "" {
			t.Errorf("item %q has no id", item.Nomenclature)
		}
	}
	if got := items[0].LIN; len(got) != 2 || got[0] != "DA150J" || got[1] != "B14729" {
		t.Errorf("unexpected LIN split: %v", got)
	}
	if items[1].PartialNSN != "0001" {
		t.Errorf("expected partial NSN 0001, got %q", items[1].PartialNSN)
	}
}

func TestAddEquipmentValidation(t *testing.T) {
	s := newTestServer(t, "", testWritePasscode)
	token := grantToken(t, s, auth.ScopeWrite, testWritePasscode)

	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{
			name: "short code",
			body: map[string]any{"lin": "DA150J/B14729", "nomenclature": "BAG,DUFFEL", "partialNsn": "7"},
			want: "invalid code format",
		},
		{
			name: "missing nomenclature",
			body: map[string]any{"lin": "DA150J", "partialNsn": "1234"},
			want: "missing required field",
		},
		{
			name: "empty lin",
			body: map[string]any{"lin": " / ", "nomenclature": "BAG,DUFFEL", "partialNsn": "1234"},
			want: "missing required field",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := addEquipment(t, s, token, tt.body)
			if status != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", status)
			}
			if out["error"] != tt.want {
				t.Errorf("expected error %q, got %v", tt.want, out["error"])
			}
		})
	}
}

func TestAddEquipmentDuplicate(t *testing.T) {
	s := newTestServer(t, "", testWritePasscode)
	token := grantToken(t, s, auth.ScopeWrite, testWritePasscode)

	body := map[string]any{"lin": "DA150J", "nomenclature": "BAG,DUFFEL", "partialNsn": "1234"}
	if status, _ := addEquipment(t, s, token, body); status != http.StatusOK {
		t.Fatalf("expected 200 for first add, got %d", status)
	}

	body["nomenclature"] = "SOMETHING ELSE"
	status, out := addEquipment(t, s, token, body)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for duplicate, got %d", status)
	}
	if out["error"] != "Item with this NSN already exists" {
		t.Errorf("unexpected error: %v", out["error"])
	}
}

func TestWriteGateWithoutPasscode(t *testing.T) {
	s := newTestServer(t, "", "")

	resp, _ := verify(t, http.DefaultClient, s.URL+"/api/auth/verify-write", map[string]string{"passcode": "anything"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 when no write passcode is configured, got %d", resp.StatusCode)
	}
}

func uploadRequest(t *testing.T, url, token, nsn, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if nsn != "" {
		mw.WriteField("nsn", nsn)
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("creating form file: %v", err)
		}
		fw.Write(data)
	}
	mw.Close()

	req, _ := http.NewRequest("POST", url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUpload(t *testing.T) {
	s := newTestServer(t, "", testWritePasscode)
	token := grantToken(t, s, auth.ScopeWrite, testWritePasscode)

	var pngData bytes.Buffer
	png.Encode(&pngData, image.NewRGBA(image.Rect(0, 0, 4, 4)))

	resp, err := http.DefaultClient.Do(uploadRequest(t, s.URL+"/api/upload", token, "1234", "Photo.PNG", pngData.Bytes()))
	if err != nil {
		t.Fatalf("upload request: %v", err)
	}
	var out uploadResponse
	json.NewDecoder(resp.Body).Decode(&out)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if out.Filename != "1234.png" || out.URL != "/images/equipment/1234.png" {
		t.Errorf("unexpected upload response: %+v", out)
	}

	tests := []struct {
		name, nsn, filename, want string
	}{
		{"unsupported extension", "1234", "photo.bmp", "unsupported image type"},
		{"missing nsn", "", "photo.png", "File and NSN are required"},
		{"missing file", "1234", "", "File and NSN are required"},
		{"short nsn", "12", "photo.png", "invalid code format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.DefaultClient.Do(uploadRequest(t, s.URL+"/api/upload", token, tt.nsn, tt.filename, pngData.Bytes()))
			if err != nil {
				t.Fatalf("upload request: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
			var body map[string]string
			json.NewDecoder(resp.Body).Decode(&body)
			if body["error"] != tt.want {
				t.Errorf("expected error %q, got %q", tt.want, body["error"])
			}
		})
	}
}

func TestListStoreFailure(t *testing.T) {
	s := newTestServer(t, "", testWritePasscode)
	s.catalog.DB.Close()

	resp, err := http.Get(s.URL + "/api/equipment")
	if err != nil {
		t.Fatalf("list request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if body["error"] == "" || body["details"] == "" {
		t.Errorf("expected error and details, got %v", body)
	}
}
