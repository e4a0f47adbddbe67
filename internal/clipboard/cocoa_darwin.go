//go:build darwin && cgo

package clipboard

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa
#import <Cocoa/Cocoa.h>
#include <stdlib.h>
#include <string.h>

static char *clipsense_copyString(NSString *s) {
	if (s == nil) {
		return NULL;
	}
	const char *utf8 = [s UTF8String];
	return utf8 != NULL ? strdup(utf8) : NULL;
}

static int clipsense_frontmostApp(char **name, char **bundleID) {
	@autoreleasepool {
		NSRunningApplication *app = [[NSWorkspace sharedWorkspace] frontmostApplication];
		if (app == nil) {
			return 0;
		}
		*name = clipsense_copyString([app localizedName]);
		*bundleID = clipsense_copyString([app bundleIdentifier]);
		return 1;
	}
}

static char **clipsense_readFileList(size_t *count) {
	@autoreleasepool {
		*count = 0;
		NSPasteboard *pb = [NSPasteboard generalPasteboard];
		NSDictionary *opts = @{NSPasteboardURLReadingFileURLsOnlyKey: @YES};
		NSArray *urls = [pb readObjectsForClasses:@[[NSURL class]] options:opts];
		if (urls == nil || [urls count] == 0) {
			return NULL;
		}
		char **out = calloc([urls count], sizeof(char *));
		if (out == NULL) {
			return NULL;
		}
		size_t n = 0;
		for (NSURL *url in urls) {
			char *p = clipsense_copyString([url path]);
			if (p != NULL) {
				out[n++] = p;
			}
		}
		*count = n;
		return out;
	}
}

static void clipsense_freeFileList(char **list, size_t count) {
	for (size_t i = 0; i < count; i++) {
		free(list[i]);
	}
	free(list);
}
*/
import "C"

import (
	"unsafe"

	"github.com/berrythewa/clipsense/internal/types"
)

// frontmostApp asks NSWorkspace for the active application
func frontmostApp() (types.AppInfo, bool) {
	var name, bundleID *C.char
	if C.clipsense_frontmostApp(&name, &bundleID) == 0 {
		return types.AppInfo{}, false
	}
	defer C.free(unsafe.Pointer(name))
	defer C.free(unsafe.Pointer(bundleID))
	return types.AppInfo{Name: C.GoString(name), BundleID: C.GoString(bundleID)}, true
}

// readFileList returns the paths of file URLs on the general pasteboard
func readFileList() ([]string, error) {
	var count C.size_t
	list := C.clipsense_readFileList(&count)
	if list == nil {
		return nil, nil
	}
	defer C.clipsense_freeFileList(list, count)

	n := int(count)
	paths := make([]string, 0, n)
	for _, p := range unsafe.Slice(list, n) {
		paths = append(paths, C.GoString(p))
	}
	return paths, nil
}
