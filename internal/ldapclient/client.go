// Package ldapclient talks to a freshly provisioned instance over LDAP: it
// checks whether the server answers and adds the entries management
// integration needs.
package ldapclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-ldap/ldap/v3"

	"github.com/dsforge/dsinstall/internal/ldif"
)

// ErrUnreachable is returned when no LDAP connection can be established.
var ErrUnreachable = errors.New("directory server is not reachable")

// Conn is the subset of *ldap.Conn the client uses.
type Conn interface {
	Bind(username, password string) error
	Add(req *ldap.AddRequest) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	Close() error
}

// Dialer opens a connection to url.
type Dialer func(url string, timeout time.Duration) (Conn, error)

func dialURL(url string, timeout time.Duration) (Conn, error) {
	conn, err := ldap.DialURL(url, ldap.DialWithDialer(&net.Dialer{Timeout: timeout}))
	if err != nil {
		return nil, err
	}
	conn.SetTimeout(timeout)
	return conn, nil
}

// Client addresses one directory server.
type Client struct {
	URL     string
	Timeout time.Duration
	Dial    Dialer
}

// New creates a client for url.
func New(url string, timeout time.Duration) *Client {
	return &Client{URL: url, Timeout: timeout, Dial: dialURL}
}

// URL returns the ldap:// URL of host:port.
func URL(host string, port int) string {
	return "ldap://" + net.JoinHostPort(host, strconv.Itoa(port))
}

// RootDSE is the part of the root DSE the installer reads.
type RootDSE struct {
	NamingContexts []string
	VendorVersion  string
}

func (c *Client) connect(ctx context.Context) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conn, err := c.Dial(c.URL, c.Timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreachable, c.URL, err)
	}
	return conn, nil
}

// Probe reads the root DSE anonymously. A server that answers with an LDAP
// result error is still up; only transport failures are ErrUnreachable.
func (c *Client) Probe(ctx context.Context) (*RootDSE, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	req := ldap.NewSearchRequest(
		"",
		ldap.ScopeBaseObject,
		ldap.NeverDerefAliases,
		1, int(c.Timeout.Seconds()), false,
		"(objectClass=*)",
		[]string{"namingContexts", "vendorVersion"},
		nil,
	)
	res, err := conn.Search(req)
	if err != nil {
		if ldap.IsErrorWithCode(err, ldap.ErrorNetwork) {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnreachable, c.URL, err)
		}
		return &RootDSE{}, nil
	}
	dse := &RootDSE{}
	if len(res.Entries) > 0 {
		dse.NamingContexts = res.Entries[0].GetAttributeValues("namingContexts")
		dse.VendorVersion = res.Entries[0].GetAttributeValue("vendorVersion")
	}
	return dse, nil
}

// Running reports whether the server answers on its URL.
func (c *Client) Running(ctx context.Context) bool {
	_, err := c.Probe(ctx)
	return err == nil
}

// Summary counts the outcome of EnsureEntries.
type Summary struct {
	Added   int
	Existed int
}

// EnsureEntries binds as bindDN and adds entries in order. Entries that
// already exist are counted and left alone.
func (c *Client) EnsureEntries(ctx context.Context, bindDN, bindPW string, entries []*ldif.Entry) (Summary, error) {
	var sum Summary
	conn, err := c.connect(ctx)
	if err != nil {
		return sum, err
	}
	defer func() { _ = conn.Close() }()

	if err := conn.Bind(bindDN, bindPW); err != nil {
		return sum, fmt.Errorf("bind as %s: %w", bindDN, err)
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		err := conn.Add(AddRequest(e))
		switch {
		case err == nil:
			sum.Added++
		case ldap.IsErrorWithCode(err, ldap.LDAPResultEntryAlreadyExists):
			sum.Existed++
		default:
			return sum, fmt.Errorf("add %s: %w", e.DN, err)
		}
	}
	return sum, nil
}

// AddRequest converts an entry, grouping repeated attributes in first-seen
// order.
func AddRequest(e *ldif.Entry) *ldap.AddRequest {
	req := ldap.NewAddRequest(e.DN, nil)
	for _, a := range e.Attributes() {
		req.Attribute(a.Name, a.Values)
	}
	return req
}
