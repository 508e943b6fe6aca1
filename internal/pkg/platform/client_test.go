package platform

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateCheckoutReturnsRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/functions/createStripeCheckout" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		var req CheckoutRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "v@x.com" {
			t.Errorf("email = %q", req.Email)
		}
		_, _ = io.WriteString(w, `{"data":{"url":"https://pay.example/s/1","session_id":"cs_1"}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret")
	sess, err := c.CreateCheckout(context.Background(), CheckoutRequest{Email: "v@x.com"})
	if err != nil {
		t.Fatal(err)
	}
	if sess.URL != "https://pay.example/s/1" || sess.SessionID != "cs_1" {
		t.Fatalf("session = %+v", sess)
	}
}

func TestCreateCheckoutWithoutURLIsInvalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{}}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").CreateCheckout(context.Background(), CheckoutRequest{})
	if !errors.Is(err, ErrInvalidResponse) {
		t.Fatalf("err = %v, want ErrInvalidResponse", err)
	}
}

func TestUploadFileSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if hdr.Filename != "foto.jpg" || string(data) != "jpeg-bytes" {
			t.Errorf("got %s %q", hdr.Filename, data)
		}
		_, _ = io.WriteString(w, `{"file_url":"https://cdn.example/foto.jpg"}`)
	}))
	defer srv.Close()

	url, err := NewClient(srv.URL, "").UploadFile(context.Background(), "foto.jpg", strings.NewReader("jpeg-bytes"))
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://cdn.example/foto.jpg" {
		t.Fatalf("url = %s", url)
	}
}

func TestSendEmailSurfacesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "").SendEmail(context.Background(), Email{To: "a@b.c", Subject: "s", Body: "b"})
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("err = %v, want status 502", err)
	}
}
