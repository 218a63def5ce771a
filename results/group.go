package results

import "sort"

// ModuleGroup collects the entries of one module. File names the module's
// source file only when every grouped item reported the same one; mixed or
// missing provenance leaves it empty.
type ModuleGroup[E any] struct {
	Name    string `json:"name"`
	File    string `json:"file,omitempty"`
	Entries []E    `json:"entries"`
}

// ModuleGroupResult is the shared shell for commands that group matches by
// module.
type ModuleGroupResult[E any] struct {
	ModulePattern   string           `json:"module_pattern"`
	FunctionPattern string           `json:"function_pattern,omitempty"`
	TotalItems      int              `json:"total_items"`
	Items           []ModuleGroup[E] `json:"items"`
}

// ModuleCollectionResult extends the grouped shell with the kind filter
// echo carried by collection commands.
type ModuleCollectionResult[E any] struct {
	ModulePattern string           `json:"module_pattern"`
	KindFilter    string           `json:"kind_filter,omitempty"`
	TotalItems    int              `json:"total_items"`
	Items         []ModuleGroup[E] `json:"items"`
}

// GroupByModule transforms items into (module, entry) pairs and groups them
// by module in alphabetical order. Entries keep their input order within
// each group.
func GroupByModule[T, E any](items []T, transform func(T) (module string, entry E)) []ModuleGroup[E] {
	return GroupByModuleWithFile(items, func(item T) (string, E, string) {
		module, entry := transform(item)
		return module, entry, ""
	})
}

// GroupByModuleWithFile also tracks each item's source file for the group
// header. Running it twice over the same items yields the same groups.
func GroupByModuleWithFile[T, E any](items []T, transform func(T) (module string, entry E, file string)) []ModuleGroup[E] {
	type bucket struct {
		file      string
		ambiguous bool
		entries   []E
	}

	buckets := make(map[string]*bucket)
	names := make([]string, 0)

	for _, item := range items {
		module, entry, file := transform(item)

		b, ok := buckets[module]
		if !ok {
			b = &bucket{file: file}
			buckets[module] = b
			names = append(names, module)
		} else if b.file != file {
			b.ambiguous = true
		}

		b.entries = append(b.entries, entry)
	}

	sort.Strings(names)

	groups := make([]ModuleGroup[E], 0, len(names))
	for _, name := range names {
		b := buckets[name]

		file := b.file
		if b.ambiguous {
			file = ""
		}

		groups = append(groups, ModuleGroup[E]{Name: name, File: file, Entries: b.entries})
	}

	return groups
}
