package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
)

// End-to-end check against a running, freshly seeded server. Requires
// cmd/seed to have run first. Note: the quota step upgrades acme to pro,
// so reseed before re-running the quota scenario.

var baseURL = getenv("API_BASE_URL", "http://localhost:8080")

type apiResponse struct {
	Status int
	Body   map[string]any
	List   []map[string]any
}

func main() {
	fmt.Println("=== Multi-Tenant Notes Integration Test ===")

	// 1. Health
	fmt.Println("\n1. Checking health...")
	resp := request("GET", "/health", "", nil)
	if resp.Status != 200 {
		log.Fatalf("health returned %d", resp.Status)
	}
	fmt.Println("✓ Health endpoint working")

	// 2. Login matrix
	fmt.Println("\n2. Logging in seed accounts...")
	accounts := []string{"admin@acme.test", "user@acme.test", "admin@globex.test", "user@globex.test"}
	tokens := make(map[string]string)
	for _, email := range accounts {
		tokens[email] = login(email, "password")
	}
	fmt.Println("✓ All seed accounts logged in")

	resp = request("POST", "/auth/login", "", map[string]any{"email": "admin@acme.test", "password": "wrong"})
	if resp.Status != 401 {
		log.Fatalf("bad credentials returned %d, want 401", resp.Status)
	}
	fmt.Println("✓ Bad credentials rejected")

	// 3. Principal
	fmt.Println("\n3. Checking /me...")
	resp = request("GET", "/me", tokens["admin@acme.test"], nil)
	if resp.Status != 200 || resp.Body["tenantSlug"] != "acme" || resp.Body["role"] != "admin" {
		log.Fatalf("unexpected principal: %d %v", resp.Status, resp.Body)
	}
	fmt.Println("✓ Principal matches claims")

	// 4. Tenant isolation
	fmt.Println("\n4. Checking tenant isolation...")
	resp = request("POST", "/notes", tokens["admin@acme.test"],
		map[string]any{"title": "Acme Secret", "content": "classified"})
	if resp.Status != 201 {
		log.Fatalf("create note returned %d: %v", resp.Status, resp.Body)
	}
	secretID := resp.Body["id"].(string)

	resp = request("GET", "/notes/"+secretID, tokens["admin@globex.test"], nil)
	if resp.Status != 404 {
		log.Fatalf("cross-tenant read returned %d, want 404", resp.Status)
	}
	resp = request("GET", "/notes", tokens["admin@globex.test"], nil)
	for _, note := range resp.List {
		if note["id"] == secretID {
			log.Fatal("cross-tenant note leaked into listing")
		}
	}
	fmt.Println("✓ Cross-tenant note invisible")

	// 5. Role and tenant guards
	fmt.Println("\n5. Checking role/tenant guards...")
	invite := map[string]any{"email": "new@acme.test", "role": "member"}
	resp = request("POST", "/tenants/acme/invite", tokens["user@acme.test"], invite)
	if resp.Status != 403 {
		log.Fatalf("member invite returned %d, want 403", resp.Status)
	}
	resp = request("POST", "/tenants/acme/invite", tokens["admin@globex.test"], invite)
	if resp.Status != 403 {
		log.Fatalf("foreign admin invite returned %d, want 403", resp.Status)
	}
	resp = request("POST", "/tenants/acme/upgrade", tokens["user@acme.test"], nil)
	if resp.Status != 403 {
		log.Fatalf("member upgrade returned %d, want 403", resp.Status)
	}
	fmt.Println("✓ Guards enforced")

	// 6. Quota and upgrade
	fmt.Println("\n6. Checking free-plan quota...")
	created := []string{secretID}
	for len(created) < 3 {
		resp = request("POST", "/notes", tokens["admin@acme.test"],
			map[string]any{"title": "filler", "content": "filler"})
		if resp.Status != 201 {
			log.Fatalf("create #%d returned %d: %v", len(created)+1, resp.Status, resp.Body)
		}
		created = append(created, resp.Body["id"].(string))
	}

	resp = request("POST", "/notes", tokens["admin@acme.test"],
		map[string]any{"title": "over cap", "content": "over cap"})
	if resp.Status != 403 || resp.Body["error"] != "note_limit_reached" {
		log.Fatalf("4th create returned %d %v, want 403 note_limit_reached", resp.Status, resp.Body)
	}
	fmt.Println("✓ 4th note rejected with note_limit_reached")

	resp = request("POST", "/tenants/acme/upgrade", tokens["admin@acme.test"], nil)
	if resp.Status != 200 {
		log.Fatalf("upgrade returned %d: %v", resp.Status, resp.Body)
	}
	resp = request("POST", "/notes", tokens["admin@acme.test"],
		map[string]any{"title": "post upgrade", "content": "unlimited"})
	if resp.Status != 201 {
		log.Fatalf("post-upgrade create returned %d: %v", resp.Status, resp.Body)
	}
	created = append(created, resp.Body["id"].(string))
	fmt.Println("✓ Create succeeds after upgrade")

	// 7. Cleanup created notes
	for _, id := range created {
		request("DELETE", "/notes/"+id, tokens["admin@acme.test"], nil)
	}

	fmt.Println("\nAll integration checks passed")
}

func login(email, password string) string {
	resp := request("POST", "/auth/login", "", map[string]any{"email": email, "password": password})
	if resp.Status != 200 {
		log.Fatalf("login %s returned %d: %v", email, resp.Status, resp.Body)
	}
	token, _ := resp.Body["token"].(string)
	if token == "" {
		log.Fatalf("login %s returned no token", email)
	}
	return token
}

func request(method, path, token string, body map[string]any) apiResponse {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			log.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	out := apiResponse{Status: resp.StatusCode}
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err == nil {
		if len(raw) > 0 && raw[0] == '[' {
			_ = json.Unmarshal(raw, &out.List)
		} else {
			_ = json.Unmarshal(raw, &out.Body)
		}
	}
	return out
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
