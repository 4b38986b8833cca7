package server

import "testing"

func TestListenAddrLoopbackOnly(t *testing.T) {
	tests := []struct {
		apiURL  string
		want    string
		wantErr bool
	}{
		{"http://127.0.0.1:7380", "127.0.0.1:7380", false},
		{"http://localhost:7380", "localhost:7380", false},
		{"http://[::1]:7380", "[::1]:7380", false},
		{"127.0.0.1:7380", "127.0.0.1:7380", false},
		{"http://0.0.0.0:7380", "", true},
		{"http://192.168.1.5:7380", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ListenAddr(tt.apiURL)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ListenAddr(%q) accepted a remote host", tt.apiURL)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ListenAddr(%q): %v", tt.apiURL, err)
		}
		if got != tt.want {
			t.Fatalf("ListenAddr(%q) = %q, want %q", tt.apiURL, got, tt.want)
		}
	}
}

func TestListenAddrRemoteOptIn(t *testing.T) {
	t.Setenv(allowRemoteEnvKey, "true")

	got, err := ListenAddr("http://0.0.0.0:7380")
	if err != nil {
		t.Fatalf("ListenAddr with opt-in: %v", err)
	}
	if got != "0.0.0.0:7380" {
		t.Fatalf("ListenAddr = %q", got)
	}
}
