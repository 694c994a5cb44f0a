// Copyright 2024 Fudong and Hosen
// This file is part of the treemut library.
//
// The treemut library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The treemut library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the treemut library. If not, see <http://www.gnu.org/licenses/>.

// Command afl-mutator exports the tree mutator as an AFL++ custom mutator.
// Build it with
//
//	go build -buildmode=c-shared -o libtreemut.so ./cmd/afl-mutator
//
// and point AFL_CUSTOM_MUTATOR_LIBRARY at the result. The configuration file
// is taken from TREEMUT_CONFIG.
//
// Every handle returned by afl_custom_init owns its own bridge and scratch
// memory. The scratch buffers live in C memory so the pointers handed back
// through out_buf stay valid after the call returns, until the next call of
// the same hook on the same handle.
package main

/*
#include <stdint.h>
#include <stdlib.h>

typedef struct {
	uintptr_t handle;
	uint8_t  *mutate_buf;
	uint8_t  *render_buf;
	uint8_t  *splice_buf;
	size_t    cap;
} treemut_state;
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/ethereum/go-ethereum/log"
)

func cBytes(p *C.uint8_t, n C.size_t) []byte {
	if p == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), int(n))
}

func cAlloc(n C.size_t) *C.uint8_t {
	return (*C.uint8_t)(C.malloc(n))
}

func lookup(data unsafe.Pointer) (*C.treemut_state, *host) {
	state := (*C.treemut_state)(data)
	return state, cgo.Handle(state.handle).Value().(*host)
}

// result points out at the base of buf and returns the result length. The
// view always starts at the base of its scratch buffer.
func result(out **C.uint8_t, buf *C.uint8_t, view []byte) C.size_t {
	*out = buf
	return C.size_t(len(view))
}

//export afl_custom_init
func afl_custom_init(afl unsafe.Pointer, seed C.uint) unsafe.Pointer {
	cfg, err := loadConfig()
	if err != nil {
		return nil
	}
	size := C.size_t(cfg.Codec.MaxSize)

	state := (*C.treemut_state)(C.calloc(1, C.sizeof_treemut_state))
	state.cap = size
	state.mutate_buf = cAlloc(size)
	state.render_buf = cAlloc(size)
	state.splice_buf = cAlloc(size)
	if state.mutate_buf == nil || state.render_buf == nil || state.splice_buf == nil {
		log.Error("Failed to allocate scratch memory", "size", cfg.Codec.MaxSize)
		freeState(state)
		return nil
	}

	h, err := newHost(cfg, uint32(seed),
		cBytes(state.mutate_buf, size),
		cBytes(state.render_buf, size),
		cBytes(state.splice_buf, size))
	if err != nil {
		log.Error("Failed to initialize custom mutator", "err", err)
		freeState(state)
		return nil
	}
	state.handle = C.uintptr_t(cgo.NewHandle(h))
	return unsafe.Pointer(state)
}

//export afl_custom_fuzz
func afl_custom_fuzz(data unsafe.Pointer, buf *C.uint8_t, bufSize C.size_t, outBuf **C.uint8_t,
	addBuf *C.uint8_t, addBufSize C.size_t, maxSize C.size_t) C.size_t {
	state, h := lookup(data)
	limit := int(min(maxSize, state.cap))
	return result(outBuf, state.mutate_buf, h.fuzz(cBytes(buf, bufSize), limit))
}

//export afl_custom_post_process
func afl_custom_post_process(data unsafe.Pointer, buf *C.uint8_t, bufSize C.size_t, outBuf **C.uint8_t) C.size_t {
	state, h := lookup(data)
	return result(outBuf, state.render_buf, h.postProcess(cBytes(buf, bufSize)))
}

//export afl_custom_splicer
func afl_custom_splicer(data unsafe.Pointer, buf1 *C.uint8_t, size1 C.size_t,
	buf2 *C.uint8_t, size2 C.size_t, outBuf **C.uint8_t) C.size_t {
	state, h := lookup(data)
	return result(outBuf, state.splice_buf, h.splice(cBytes(buf1, size1), cBytes(buf2, size2)))
}

//export afl_custom_deinit
func afl_custom_deinit(data unsafe.Pointer) {
	if data == nil {
		return
	}
	state, h := lookup(data)
	h.close()
	cgo.Handle(state.handle).Delete()
	freeState(state)
}

func freeState(state *C.treemut_state) {
	C.free(unsafe.Pointer(state.mutate_buf))
	C.free(unsafe.Pointer(state.render_buf))
	C.free(unsafe.Pointer(state.splice_buf))
	C.free(unsafe.Pointer(state))
}

func main() {}
