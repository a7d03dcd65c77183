package fritzbox

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/icholy/digest"
	"github.com/jackpal/gateway"
)

// TR-064 port of the box's SOAP server
const DefaultPort = 49000

// MaxResponseSize bounds the body read from the box
const MaxResponseSize = 1 << 20

const (
	HostsControlPath = "/upnp/control/hosts"
	HostsService     = "urn:dslforum-org:service:Hosts:1"
)

// DefaultURL points at the TR-064 server of the default gateway, which for a home network is
// the box itself.
func DefaultURL() (string, error) {
	ip, err := gateway.DiscoverGateway()
	if err != nil {
		return "", fmt.Errorf("failed to discover gateway: %w", err)
	}
	return (&url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(ip.String(), strconv.Itoa(DefaultPort)),
	}).String(), nil
}

type Client struct {
	log     logr.Logger
	baseURL *url.URL
	http    *http.Client
}

// NewClient returns a TR-064 client. Credentials, when given, are sent with HTTP digest
// authentication as the box requires.
func NewClient(log logr.Logger, baseURL, username, password string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing scheme or host", baseURL)
	}

	transport := http.DefaultTransport
	if username != "" || password != "" {
		transport = &digest.Transport{
			Username:  username,
			Password:  password,
			Transport: http.DefaultTransport,
		}
	}

	return &Client{
		log:     log.WithName("fritzbox.Client"),
		baseURL: u,
		http:    &http.Client{Transport: transport},
	}, nil
}

func (c *Client) String() string {
	return c.baseURL.String()
}

// HostEntry is one row of the box's host table
type HostEntry struct {
	IPAddress          string `xml:"NewIPAddress"`
	AddressSource      string `xml:"NewAddressSource"`
	LeaseTimeRemaining int    `xml:"NewLeaseTimeRemaining"`
	MACAddress         string `xml:"NewMACAddress"`
	InterfaceType      string `xml:"NewInterfaceType"`
	Active             bool   `xml:"NewActive"`
	HostName           string `xml:"NewHostName"`
}

type hostNumberOfEntries struct {
	Count int `xml:"NewHostNumberOfEntries"`
}

type Envelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    Body     `xml:"Body"`
}

type Body struct {
	Fault               *Fault               `xml:"Fault"`
	HostNumberOfEntries *hostNumberOfEntries `xml:"GetHostNumberOfEntriesResponse"`
	GenericHostEntry    *HostEntry           `xml:"GetGenericHostEntryResponse"`
}

type Fault struct {
	Code        string `xml:"faultcode"`
	String      string `xml:"faultstring"`
	ErrorCode   int    `xml:"detail>UPnPError>errorCode"`
	Description string `xml:"detail>UPnPError>errorDescription"`
}

func (f *Fault) Error() string {
	if f.ErrorCode != 0 {
		return fmt.Sprintf("%s: %s (%d)", f.String, f.Description, f.ErrorCode)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.String)
}

type argument struct {
	name  string
	value string
}

func (c *Client) HostNumberOfEntries(ctx context.Context) (int, error) {
	body, err := c.call(ctx, HostsControlPath, HostsService, "GetHostNumberOfEntries")
	if err != nil {
		return 0, err
	}
	if body.HostNumberOfEntries == nil {
		return 0, fmt.Errorf("unhandled response to GetHostNumberOfEntries")
	}
	return body.HostNumberOfEntries.Count, nil
}

func (c *Client) GenericHostEntry(ctx context.Context, index int) (*HostEntry, error) {
	body, err := c.call(ctx, HostsControlPath, HostsService, "GetGenericHostEntry", argument{"NewIndex", strconv.Itoa(index)})
	if err != nil {
		return nil, err
	}
	if body.GenericHostEntry == nil {
		return nil, fmt.Errorf("unhandled response to GetGenericHostEntry(%d)", index)
	}
	return body.GenericHostEntry, nil
}

func (c *Client) call(ctx context.Context, path, service, action string, args ...argument) (*Body, error) {
	u := c.baseURL.JoinPath(path)
	log := c.log.WithValues("action", action)
	log.V(1).Info("Calling", "url", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(envelope(service, action, args)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", `text/xml; charset="utf-8"`)
	req.Header.Set("SOAPACTION", fmt.Sprintf(`"%s#%s"`, service, action))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", action, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) > MaxResponseSize {
		return nil, fmt.Errorf("response to %s exceeds %d bytes", action, MaxResponseSize)
	}
	log.V(1).Info("Result", "status", resp.StatusCode, "raw", string(data))

	var env Envelope
	if err := xml.Unmarshal(data, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("status error: %v", resp.StatusCode)
		}
		return nil, fmt.Errorf("malformed response to %s: %w", action, err)
	}
	if env.Body.Fault != nil {
		return nil, env.Body.Fault
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status error: %v", resp.StatusCode)
	}
	return &env.Body, nil
}

func envelope(service, action string, args []argument) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>`)
	b.WriteString(`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/" s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">`)
	b.WriteString(`<s:Body>`)
	fmt.Fprintf(&b, `<u:%s xmlns:u="%s">`, action, service)
	for _, arg := range args {
		fmt.Fprintf(&b, "<%s>", arg.name)
		_ = xml.EscapeText(&b, []byte(arg.value))
		fmt.Fprintf(&b, "</%s>", arg.name)
	}
	fmt.Fprintf(&b, `</u:%s>`, action)
	b.WriteString(`</s:Body></s:Envelope>`)
	return []byte(b.String())
}
