package nets

import "net"

// IsLocalAddr reports whether addr is a loopback or private network address.
// Such addresses are dialed directly, bypassing the proxy.
type IsLocalAddr func(addr string) (bool, error)

func (Module) IsLocalAddr() IsLocalAddr {
	return func(addr string) (bool, error) {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}
		if host == "localhost" {
			return true, nil
		}

		if ip := net.ParseIP(host); ip != nil {
			return ip.IsLoopback() || ip.IsPrivate(), nil
		}

		ips, err := net.LookupIP(host)
		if err != nil {
			// unresolvable here, let the proxy try
			return false, nil
		}
		for _, ip := range ips {
			if ip.IsLoopback() || ip.IsPrivate() {
				return true, nil
			}
		}
		return false, nil
	}
}
