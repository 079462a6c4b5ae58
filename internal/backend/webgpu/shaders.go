//go:build windows

package webgpu

// WGSL compute shaders, kept as string constants.

// workgroupSize is the default number of threads per workgroup.
const workgroupSize = 256

// maxWorkgroups is the largest dispatch along one dimension.
const maxWorkgroups = 65535

// rollShader moves 32-bit words: output[i] = input[source(i)].
//
// The geometry buffer holds dims[rank] followed by shifts[rank], shifts already
// reduced into [0, dim). Flattened rolls only use params.flat_shift.
const rollShader = `
struct Params {
    size: u32,
    rank: u32,
    flattened: u32,
    flat_shift: u32,
}

@group(0) @binding(0) var<storage, read> input: array<u32>;
@group(0) @binding(1) var<storage, read_write> result: array<u32>;
@group(0) @binding(2) var<uniform> params: Params;
@group(0) @binding(3) var<storage, read> geometry: array<u32>;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx >= params.size) {
        return;
    }
    if (params.flattened != 0u) {
        result[idx] = input[(idx + params.size - params.flat_shift) % params.size];
        return;
    }
    var rem = idx;
    var src = 0u;
    var stride = 1u;
    for (var k = 0u; k < params.rank; k = k + 1u) {
        let d = params.rank - 1u - k;
        let dim = geometry[d];
        let shift = geometry[params.rank + d];
        let coord = rem % dim;
        rem = rem / dim;
        src = src + ((coord + dim - shift) % dim) * stride;
        stride = stride * dim;
    }
    result[idx] = input[src];
}
`

// addShaderF32 performs element-wise addition: result = a + b.
const addShaderF32 = `
@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        result[idx] = a[idx] + b[idx];
    }
}
`

// addShaderI32 is addShaderF32 for int32 tensors.
const addShaderI32 = `
@group(0) @binding(0) var<storage, read> a: array<i32>;
@group(0) @binding(1) var<storage, read> b: array<i32>;
@group(0) @binding(2) var<storage, read_write> result: array<i32>;

struct Params {
    size: u32,
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        result[idx] = a[idx] + b[idx];
    }
}
`
