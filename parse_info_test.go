package natsproto

import (
	"errors"
	"testing"
)

func TestParseInfoFull(t *testing.T) {
	data := []byte(`{
		"server_id": "NDJ5", "server_name": "nats1", "version": "2.10.1",
		"go": "go1.21", "host": "0.0.0.0", "port": 4222,
		"headers": true, "proto": 1,
		"max_payload": 1048576, "client_id": 7,
		"auth_required": true, "tls_required": false,
		"tls_verify": false, "tls_available": true,
		"connect_urls": ["1.2.3.4:4222", "1.2.3.5:4222"],
		"ws_connect_urls": ["1.2.3.4:443"],
		"ldm": false, "git_commit": "abc123",
		"jetstream": true, "ip": "1.2.3.4",
		"client_ip": "9.9.9.9", "nonce": "abcdef",
		"cluster": "prod", "domain": "hub", "xkey": "xk1"
	}`)
	info, err := parseInfo(data)
	if err != nil {
		t.Fatalf("parseInfo error = %v", err)
	}
	if info.ServerID != "NDJ5" || info.ServerName != "nats1" || info.Go != "go1.21" ||
		info.Host != "0.0.0.0" || info.Port != 4222 || !info.Headers || info.Proto != 1 {
		t.Fatalf("info required fields = %#v", info)
	}
	if info.Version != (Version{Major: 2, Minor: 10, Patch: 1}) {
		t.Errorf("info.Version = %#v", info.Version)
	}
	if info.ClientID == nil || *info.ClientID != 7 {
		t.Errorf("info.ClientID = %v, want 7", info.ClientID)
	}
	if len(info.ConnectURLs) != 2 || info.ConnectURLs[0] != "1.2.3.4:4222" {
		t.Errorf("info.ConnectURLs = %v", info.ConnectURLs)
	}
	if info.GitCommit == nil || *info.GitCommit != "abc123" {
		t.Errorf("info.GitCommit = %v, want abc123", info.GitCommit)
	}
	if info.JetStream == nil || !*info.JetStream {
		t.Errorf("info.JetStream = %v, want true", info.JetStream)
	}
}

func TestParseInfoMinimal(t *testing.T) {
	data := []byte(`{"server_id":"s","server_name":"n","version":"","go":"go1.21","host":"h","port":4222,"headers":false,"proto":0}`)
	info, err := parseInfo(data)
	if err != nil {
		t.Fatalf("parseInfo error = %v", err)
	}
	if info.Version != (Version{Dev: "unknown"}) {
		t.Errorf("info.Version = %#v, want unknown", info.Version)
	}
	if info.MaxPayload != nil || info.ConnectURLs != nil || info.GitCommit != nil {
		t.Errorf("info optional fields should be nil: %#v", info)
	}
}

func TestParseInfoInvalidJSON(t *testing.T) {
	if _, err := parseInfo([]byte(`not json`)); !errors.Is(err, ErrProtocol) {
		t.Errorf("parseInfo error = %v, want ErrProtocol", err)
	}
}

func TestParseInfoMissingRequiredKey(t *testing.T) {
	for _, data := range []string{
		`{"server_name":"n","version":"1","go":"g","host":"h","port":1,"headers":true,"proto":1}`,
		`{"server_id":"s","version":"1","go":"g","host":"h","port":1,"headers":true,"proto":1}`,
		`{"server_id":"s","server_name":"n","go":"g","host":"h","port":1,"headers":true,"proto":1}`,
	} {
		if _, err := parseInfo([]byte(data)); !errors.Is(err, ErrProtocol) {
			t.Errorf("parseInfo(%q) error = %v, want ErrProtocol", data, err)
		}
	}
}

func TestParseInfoBadVersion(t *testing.T) {
	data := []byte(`{"server_id":"s","server_name":"n","version":"a.b.c","go":"g","host":"h","port":1,"headers":true,"proto":1}`)
	if _, err := parseInfo(data); !errors.Is(err, ErrProtocol) {
		t.Errorf("parseInfo error = %v, want ErrProtocol", err)
	}
}
