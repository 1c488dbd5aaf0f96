// Package directory maintains best-effort in-memory mappings from network
// address to display identity: the contact map fed by directory-sync events
// and the group map populated lazily as group traffic arrives.
//
// The cache never evicts. A single-account deployment accumulates at most
// one address book plus the groups it participates in, so unbounded growth
// is accepted.
package directory

import (
	"strings"
	"sync"

	"github.com/wadash/wadash/core/protocol"
)

// Cache holds the contact and group maps. All methods are safe for
// concurrent use; mutations are atomic with respect to reads, so a reader
// never observes a partially replaced map.
type Cache struct {
	mu       sync.RWMutex
	contacts map[string]protocol.Contact
	groups   map[string]protocol.GroupInfo
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{
		contacts: make(map[string]protocol.Contact),
		groups:   make(map[string]protocol.GroupInfo),
	}
}

// ReplaceAll discards the prior contact map and installs the given contacts
// wholesale. Used on a full directory sync. Entries without an address are
// skipped.
func (c *Cache) ReplaceAll(contacts []protocol.Contact) {
	next := make(map[string]protocol.Contact, len(contacts))
	for _, contact := range contacts {
		if contact.Address == "" {
			continue
		}
		next[contact.Address] = contact
	}

	c.mu.Lock()
	c.contacts = next
	c.mu.Unlock()
}

// Merge applies incremental contact updates. An update for a known address
// merges fields, with non-empty incoming fields overwriting; an update for
// an unknown address inserts a new entry. Applying the same update twice
// yields the same state.
func (c *Cache) Merge(updates []protocol.Contact) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, update := range updates {
		if update.Address == "" {
			continue
		}

		entry, exists := c.contacts[update.Address]
		if !exists {
			c.contacts[update.Address] = update
			continue
		}

		if update.DisplayName != "" {
			entry.DisplayName = update.DisplayName
		}
		if update.PushName != "" {
			entry.PushName = update.PushName
		}
		c.contacts[update.Address] = entry
	}
}

// Contact looks up a contact by canonical address.
func (c *Cache) Contact(address string) (protocol.Contact, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	contact, ok := c.contacts[address]
	return contact, ok
}

// ContactByName finds the first contact whose display name matches name
// case-insensitively.
func (c *Cache) ContactByName(name string) (protocol.Contact, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, contact := range c.contacts {
		if contact.DisplayName != "" && strings.EqualFold(contact.DisplayName, name) {
			return contact, true
		}
	}
	return protocol.Contact{}, false
}

// Group looks up cached group metadata by canonical address.
func (c *Cache) Group(address string) (protocol.GroupInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	group, ok := c.groups[address]
	return group, ok
}

// GroupBySubject finds the first group whose subject matches case-insensitively.
func (c *Cache) GroupBySubject(subject string) (protocol.GroupInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, group := range c.groups {
		if group.Subject != "" && strings.EqualFold(group.Subject, subject) {
			return group, true
		}
	}
	return protocol.GroupInfo{}, false
}

// CacheGroup inserts group metadata, called the first time a group is seen.
// Cached entries never expire, so a later rename keeps showing the old
// subject until the process restarts.
func (c *Cache) CacheGroup(group protocol.GroupInfo) {
	if group.Address == "" {
		return
	}

	c.mu.Lock()
	c.groups[group.Address] = group
	c.mu.Unlock()
}

// Counts reports the number of cached contacts and groups.
func (c *Cache) Counts() (contacts, groups int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.contacts), len(c.groups)
}
