package results

import "sort"

// FuncIdentity identifies one function across call records.
type FuncIdentity struct {
	Module string
	Name   string
	Arity  int64
}

// CallerIdentity returns the identity of the calling side.
func (c Call) CallerIdentity() FuncIdentity {
	return FuncIdentity{Module: c.Caller.Module, Name: c.Caller.Name, Arity: c.Caller.Arity}
}

// CalleeIdentity returns the identity of the called side.
func (c Call) CalleeIdentity() FuncIdentity {
	return FuncIdentity{Module: c.Callee.Module, Name: c.Callee.Name, Arity: c.Callee.Arity}
}

// CallGrouping describes how GroupCalls condenses a flat call list into
// per-module entries. Module and Key pick the group and entry bucket for each
// call, LessKey orders the buckets inside a group, and Build turns one
// finished bucket into an entry.
//
// The optional hooks cover the ways commands diverge. File contributes the
// group's source file, kept only when every call in the group agrees on it.
// Less re-orders the calls inside a bucket, and Identity then drops repeats
// so each caller or callee is counted once; both nil leave the bucket in
// input order with nothing removed.
type CallGrouping[K comparable, E any] struct {
	Module  func(Call) string
	Key     func(Call) K
	LessKey func(a, b K) bool
	Build   func(key K, calls []Call) E

	File     func(Call) string
	Less     func(a, b Call) bool
	Identity func(Call) FuncIdentity
}

// GroupCalls buckets calls by module and entry key and reports the total of
// calls kept across all buckets alongside the groups. Modules sort
// alphabetically; dedup happens after the bucket sort, so the surviving call
// for each identity is the one Less ranks first.
func GroupCalls[K comparable, E any](calls []Call, grouping CallGrouping[K, E]) (int, []ModuleGroup[E]) {
	type moduleBucket struct {
		file      string
		ambiguous bool
		keys      []K
		byKey     map[K][]Call
	}

	buckets := make(map[string]*moduleBucket)
	names := make([]string, 0)

	for _, call := range calls {
		module := grouping.Module(call)

		b, ok := buckets[module]
		if !ok {
			b = &moduleBucket{byKey: make(map[K][]Call)}
			if grouping.File != nil {
				b.file = grouping.File(call)
			}
			buckets[module] = b
			names = append(names, module)
		} else if grouping.File != nil && b.file != grouping.File(call) {
			b.ambiguous = true
		}

		key := grouping.Key(call)
		if _, ok := b.byKey[key]; !ok {
			b.keys = append(b.keys, key)
		}
		b.byKey[key] = append(b.byKey[key], call)
	}

	sort.Strings(names)

	total := 0
	groups := make([]ModuleGroup[E], 0, len(names))
	for _, name := range names {
		b := buckets[name]
		sort.Slice(b.keys, func(i, j int) bool { return grouping.LessKey(b.keys[i], b.keys[j]) })

		entries := make([]E, 0, len(b.keys))
		for _, key := range b.keys {
			bucket := b.byKey[key]
			if grouping.Less != nil {
				sort.SliceStable(bucket, func(i, j int) bool { return grouping.Less(bucket[i], bucket[j]) })
			}
			if grouping.Identity != nil {
				bucket = RetainFirst(bucket, grouping.Identity)
			}

			total += len(bucket)
			entries = append(entries, grouping.Build(key, bucket))
		}

		file := b.file
		if b.ambiguous {
			file = ""
		}

		groups = append(groups, ModuleGroup[E]{Name: name, File: file, Entries: entries})
	}

	return total, groups
}
