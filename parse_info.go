package natsproto

import (
	jsoniter "github.com/json-iterator/go"
)

var infoJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// rawInfo mirrors the wire-level INFO JSON object. Every field is a
// pointer (or nil-able slice) so a missing key is distinguishable from
// a present-but-zero one, matching the Python original's dict.get()
// on optional keys vs dict[...] on required ones
// (original_source/src/protocol/common.py:288-319).
type rawInfo struct {
	ServerID   *string `json:"server_id"`
	ServerName *string `json:"server_name"`
	Version    *string `json:"version"`
	Go         *string `json:"go"`
	Host       *string `json:"host"`
	Port       *int64  `json:"port"`
	Headers    *bool   `json:"headers"`
	Proto      *int64  `json:"proto"`

	MaxPayload    *int64   `json:"max_payload"`
	ClientID      *int64   `json:"client_id"`
	AuthRequired  *bool    `json:"auth_required"`
	TLSRequired   *bool    `json:"tls_required"`
	TLSVerify     *bool    `json:"tls_verify"`
	TLSAvailable  *bool    `json:"tls_available"`
	ConnectURLs   []string `json:"connect_urls"`
	WSConnectURLs []string `json:"ws_connect_urls"`
	LDM           *bool    `json:"ldm"`
	GitCommit     *string  `json:"git_commit"`
	JetStream     *bool    `json:"jetstream"`
	IP            *string  `json:"ip"`
	ClientIP      *string  `json:"client_ip"`
	Nonce         *string  `json:"nonce"`
	Cluster       *string  `json:"cluster"`
	Domain        *string  `json:"domain"`
	XKey          *string  `json:"xkey"`
}

// parseInfo decodes the JSON object argument of an INFO line.
// Any decode failure or missing required key folds into ErrProtocol:
// within INFO parsing there is no direct caller to hand a more
// specific error to.
func parseInfo(data []byte) (InfoEvent, error) {
	var raw rawInfo
	if err := infoJSON.Unmarshal(data, &raw); err != nil {
		return InfoEvent{}, ErrProtocol
	}
	if raw.ServerID == nil || raw.ServerName == nil || raw.Version == nil ||
		raw.Go == nil || raw.Host == nil || raw.Port == nil ||
		raw.Headers == nil || raw.Proto == nil {
		return InfoEvent{}, ErrProtocol
	}
	version, err := ParseVersion(*raw.Version)
	if err != nil {
		return InfoEvent{}, ErrProtocol
	}
	return InfoEvent{
		ServerID:   *raw.ServerID,
		ServerName: *raw.ServerName,
		Version:    version,
		Go:         *raw.Go,
		Host:       *raw.Host,
		Port:       *raw.Port,
		Headers:    *raw.Headers,
		Proto:      *raw.Proto,

		MaxPayload:    raw.MaxPayload,
		ClientID:      raw.ClientID,
		AuthRequired:  raw.AuthRequired,
		TLSRequired:   raw.TLSRequired,
		TLSVerify:     raw.TLSVerify,
		TLSAvailable:  raw.TLSAvailable,
		ConnectURLs:   raw.ConnectURLs,
		WSConnectURLs: raw.WSConnectURLs,
		LameDuckMode:  raw.LDM,
		GitCommit:     raw.GitCommit,
		JetStream:     raw.JetStream,
		IP:            raw.IP,
		ClientIP:      raw.ClientIP,
		Nonce:         raw.Nonce,
		Cluster:       raw.Cluster,
		Domain:        raw.Domain,
		XKey:          raw.XKey,
	}, nil
}
