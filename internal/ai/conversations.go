package ai

import "sync"

// ConversationCache maps chat session ids to live conversation handles.
// Handles are process-local and carry no persistence guarantee: after a
// restart a session simply continues on a fresh model-side context.
type ConversationCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	mu   sync.Mutex
	conv *Conversation
}

// NewConversationCache builds an empty cache.
func NewConversationCache() *ConversationCache {
	return &ConversationCache{
		entries: make(map[string]*cacheEntry),
	}
}

// Acquire returns the session's conversation handle, creating it with start
// when absent, and holds the per-session lock until the returned release
// func is called. Turns on one session are therefore serialized while turns
// on different sessions proceed in parallel.
func (c *ConversationCache) Acquire(sessionID string, start func() *Conversation) (*Conversation, func()) {
	c.mu.Lock()
	entry, ok := c.entries[sessionID]
	if !ok {
		entry = &cacheEntry{conv: start()}
		c.entries[sessionID] = entry
	}
	c.mu.Unlock()

	entry.mu.Lock()
	return entry.conv, entry.mu.Unlock
}

// Drop discards a session's handle, if any.
func (c *ConversationCache) Drop(sessionID string) {
	c.mu.Lock()
	delete(c.entries, sessionID)
	c.mu.Unlock()
}

// Size reports how many live handles the cache holds.
func (c *ConversationCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
