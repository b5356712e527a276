package client

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const anonymous = "anon"

// VoteCache remembers the last vote value per principal and item. Keys are
// namespaced by principal so one user never sees another's state.
type VoteCache struct {
	lru *lru.Cache[string, int]
}

func NewVoteCache(size int) (*VoteCache, error) {
	l, err := lru.New[string, int](size)
	if err != nil {
		return nil, err
	}
	return &VoteCache{lru: l}, nil
}

// CacheKey formats vote:<principal>:<type>:<item>.
func CacheKey(principal, feedbackType, itemID string) string {
	if principal == "" {
		principal = anonymous
	}
	return fmt.Sprintf("vote:%s:%s:%s", principal, feedbackType, itemID)
}

func (c *VoteCache) Get(principal, feedbackType, itemID string) (int, bool) {
	return c.lru.Get(CacheKey(principal, feedbackType, itemID))
}

func (c *VoteCache) Set(principal, feedbackType, itemID string, value int) {
	c.lru.Add(CacheKey(principal, feedbackType, itemID), value)
}

// Forget drops every entry of principal.
func (c *VoteCache) Forget(principal string) {
	if principal == "" {
		principal = anonymous
	}
	prefix := "vote:" + principal + ":"
	for _, k := range c.lru.Keys() {
		if strings.HasPrefix(k, prefix) {
			c.lru.Remove(k)
		}
	}
}

func (c *VoteCache) Len() int { return c.lru.Len() }
