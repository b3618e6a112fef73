// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package all blank-imports every format package in this module purely
// for its init()-time registry.Register side effect. Import this package
// (for side effects only) when every codec should be available by name
// through the registry without separately importing each format.
package all

import (
	_ "github.com/woozymasta/gamelz/formats/aklz"
	_ "github.com/woozymasta/gamelz/formats/aplib"
	_ "github.com/woozymasta/gamelz/formats/blz"
	_ "github.com/woozymasta/gamelz/formats/clz0"
	_ "github.com/woozymasta/gamelz/formats/cnx2"
	_ "github.com/woozymasta/gamelz/formats/ecd"
	_ "github.com/woozymasta/gamelz/formats/headershape"
	_ "github.com/woozymasta/gamelz/formats/huf20"
	_ "github.com/woozymasta/gamelz/formats/hwgz"
	_ "github.com/woozymasta/gamelz/formats/lz02"
	_ "github.com/woozymasta/gamelz/formats/lz10"
	_ "github.com/woozymasta/gamelz/formats/lz11"
	_ "github.com/woozymasta/gamelz/formats/lz40"
	_ "github.com/woozymasta/gamelz/formats/lz4frame"
	_ "github.com/woozymasta/gamelz/formats/lzo"
	_ "github.com/woozymasta/gamelz/formats/lzss"
	_ "github.com/woozymasta/gamelz/formats/mio0"
	_ "github.com/woozymasta/gamelz/formats/rle30"
	_ "github.com/woozymasta/gamelz/formats/wflz"
	_ "github.com/woozymasta/gamelz/formats/yay0"
	_ "github.com/woozymasta/gamelz/formats/yaz0"
	_ "github.com/woozymasta/gamelz/formats/zlibenv"
)
