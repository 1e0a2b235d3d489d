// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"crypto/sha256"
	"sync"
)

// sigCacheKey identifies a (message hash, signature, public key) triple.
type sigCacheKey [sha256.Size]byte

func newSigCacheKey(hash [32]byte, sig, pubKey []byte) sigCacheKey {
	hasher := sha256.New()
	hasher.Write(hash[:])
	hasher.Write(sig)
	hasher.Write(pubKey)

	var key sigCacheKey
	copy(key[:], hasher.Sum(nil))
	return key
}

// SigCache implements an ECDSA signature verification cache with a randomized
// entry eviction policy. Only valid signatures will be added to the cache.
// The benefits of SigCache are twofold. Firstly, usage of SigCache mitigates
// a DoS attack wherein an attack causes a victim's client to hang due to
// worst-case behavior triggered while processing attacker crafted invalid
// scripts. Secondly, usage of the SigCache introduces a signature
// verification optimization which speeds up the evaluation of scripts that
// are checked repeatedly, such as a multisig script run once per signer.
type SigCache struct {
	sync.RWMutex
	validSigs  map[sigCacheKey]struct{}
	maxEntries uint
}

// NewSigCache creates and initializes a new instance of SigCache. Its sole
// parameter 'maxEntries' represents the maximum number of entries allowed to
// exist in the SigCache at any particular moment. Random entries are evicted
// to make room for new entries that would cause the number of entries in the
// cache to exceed the max.
func NewSigCache(maxEntries uint) *SigCache {
	return &SigCache{
		validSigs:  make(map[sigCacheKey]struct{}, maxEntries),
		maxEntries: maxEntries,
	}
}

// Exists returns true if an existing entry of 'sig' over 'hash' for public
// key 'pubKey' is found within the SigCache. Otherwise, false is returned.
//
// NOTE: This function is safe for concurrent access. Readers won't be blocked
// unless there exists a writer, adding an entry to the SigCache.
func (s *SigCache) Exists(hash [32]byte, sig, pubKey []byte) bool {
	key := newSigCacheKey(hash, sig, pubKey)

	s.RLock()
	_, ok := s.validSigs[key]
	s.RUnlock()

	return ok
}

// Add adds an entry for a signature over 'hash' under public key 'pubKey' to
// the signature cache. In the event that the SigCache is 'full', an
// existing entry is randomly chosen to be evicted in order to make space for
// the new entry.
//
// NOTE: This function is safe for concurrent access. Writers will block
// simultaneous readers until function execution has concluded.
func (s *SigCache) Add(hash [32]byte, sig, pubKey []byte) {
	s.Lock()
	defer s.Unlock()

	if s.maxEntries == 0 {
		return
	}

	// If adding this new entry will put us over the max number of allowed
	// entries, then evict an entry.
	if uint(len(s.validSigs)+1) > s.maxEntries {
		// Evict whichever entry map iteration yields first. Keys are
		// hashes, so callers cannot choose what gets evicted.
		for entry := range s.validSigs {
			delete(s.validSigs, entry)
			break
		}
	}
	s.validSigs[newSigCacheKey(hash, sig, pubKey)] = struct{}{}
}

// Len returns the number of entries in the cache.
func (s *SigCache) Len() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.validSigs)
}
