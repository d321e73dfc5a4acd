package main

import (
	"encoding/json"
	"net/http"
	"testing"

	"shuvoedward/hadith_search/internal/data"
	"shuvoedward/hadith_search/internal/service"
)

func TestListHadithsHandler(t *testing.T) {
	testRouter := testApp.routes(testHandlers)

	rr := get(t, testRouter, "/v1/hadiths?collection=bukhari&limit=2")
	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}

	var page service.HadithPage
	if err := json.Unmarshal(rr.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}

	if page.Pagination.Total != 3 {
		t.Errorf("expected 3 bukhari hadiths, got %d", page.Pagination.Total)
	}
	if len(page.Data) != 2 {
		t.Fatalf("expected a page of 2, got %d", len(page.Data))
	}
	if page.Data[0].HadithNumber != 1 || page.Data[1].HadithNumber != 270 {
		t.Errorf("expected reference order 1, 270, got %d, %d", page.Data[0].HadithNumber, page.Data[1].HadithNumber)
	}
}

func TestListHadithsHandler_Validation(t *testing.T) {
	testRouter := testApp.routes(testHandlers)

	for _, target := range []string{
		"/v1/hadiths?book=abc",
		"/v1/hadiths?number=-1",
		"/v1/hadiths?limit=0",
		"/v1/hadiths?number=12345678901",
	} {
		rr := get(t, testRouter, target)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: got %v want %v", target, rr.Code, http.StatusUnprocessableEntity)
		}
	}
}

func TestGetHadithHandler(t *testing.T) {
	testRouter := testApp.routes(testHandlers)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantLang   string
	}{
		{"russian translation", "/v1/hadiths/3?language=ru", http.StatusOK, "ru"},
		{"default language", "/v1/hadiths/3", http.StatusOK, "en"},
		{"unknown id", "/v1/hadiths/999", http.StatusNotFound, ""},
		{"non numeric id", "/v1/hadiths/abc", http.StatusNotFound, ""},
		{"zero id", "/v1/hadiths/0", http.StatusNotFound, ""},
		{"bad language", "/v1/hadiths/3?language=russian", http.StatusUnprocessableEntity, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := get(t, testRouter, tt.target)
			if rr.Code != tt.wantStatus {
				t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, tt.wantStatus)
			}
			if tt.wantLang == "" {
				return
			}

			var body struct {
				Hadith data.SearchResult `json:"hadith"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Hadith.Translation == nil || body.Hadith.Translation.LanguageCode != tt.wantLang {
				t.Errorf("expected a %s translation, got %+v", tt.wantLang, body.Hadith.Translation)
			}
		})
	}
}

func TestRandomHadithHandler(t *testing.T) {
	testRouter := testApp.routes(testHandlers)

	rr := get(t, testRouter, "/v1/random?collection=muslim")
	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}

	var body struct {
		Hadith data.SearchResult `json:"hadith"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Hadith.Collection != "Sahih Muslim" {
		t.Errorf("expected a Sahih Muslim hadith, got %q", body.Hadith.Collection)
	}

	rr = get(t, testRouter, "/v1/random?collection=tirmidhi")
	if rr.Code != http.StatusNotFound {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusNotFound)
	}
}

func TestDailyHadithHandler(t *testing.T) {
	testRouter := testApp.routes(testHandlers)

	first := get(t, testRouter, "/v1/daily")
	second := get(t, testRouter, "/v1/daily")

	if first.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", first.Code, http.StatusOK)
	}
	if first.Body.String() != second.Body.String() {
		t.Error("expected the same hadith for two requests on the same day")
	}
}

func TestCatalogHandlers(t *testing.T) {
	testRouter := testApp.routes(testHandlers)

	rr := get(t, testRouter, "/v1/topics")
	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}

	var topics struct {
		Topics []data.Topic `json:"topics"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &topics); err != nil {
		t.Fatal(err)
	}
	if len(topics.Topics) != 3 {
		t.Errorf("expected 3 topics, got %d", len(topics.Topics))
	}

	rr = get(t, testRouter, "/v1/collections")
	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}

	rr = get(t, testRouter, "/v1/collections/bukhari")
	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}

	var collection struct {
		Collection data.Collection `json:"collection"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &collection); err != nil {
		t.Fatal(err)
	}
	if collection.Collection.HadithCount != 3 {
		t.Errorf("expected 3 hadiths in bukhari, got %d", collection.Collection.HadithCount)
	}

	rr = get(t, testRouter, "/v1/collections/tirmidhi")
	if rr.Code != http.StatusNotFound {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusNotFound)
	}
}
