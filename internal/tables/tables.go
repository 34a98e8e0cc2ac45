// Package tables holds the compiled-in lookup tables shared by the CPU noise
// sampler and the shader: the 256-entry permutation and the 32 4-D gradients.
//
// Both tables are fixed. Changing a single entry changes the noise pattern of
// every consumer, so they are only exposed as copies.
package tables

const (
	// PermutationSize is the number of entries in the permutation table.
	PermutationSize = 256
	// Gradient4Count is the number of 4-D gradient directions.
	Gradient4Count = 32
)

// PermutationTable is a fixed reordering of 0..255 used to hash lattice coordinates.
type PermutationTable [PermutationSize]uint8

// Gradient4 is a single 4-D gradient direction with components in {-1,0,1}.
type Gradient4 [4]int8

// Gradient4Table is the ordered set of 4-D gradient directions.
type Gradient4Table [Gradient4Count]Gradient4

var permutation = PermutationTable{
	151, 160, 137, 91, 90, 15, 131, 13, 201, 95, 96, 53, 194, 233, 7, 225,
	140, 36, 103, 30, 69, 142, 8, 99, 37, 240, 21, 10, 23, 190, 6, 148,
	247, 120, 234, 75, 0, 26, 197, 62, 94, 252, 219, 203, 117, 35, 11, 32,
	57, 177, 33, 88, 237, 149, 56, 87, 174, 20, 125, 136, 171, 168, 68, 175,
	74, 165, 71, 134, 139, 48, 27, 166, 77, 146, 158, 231, 83, 111, 229, 122,
	60, 211, 133, 230, 220, 105, 92, 41, 55, 46, 245, 40, 244, 102, 143, 54,
	65, 25, 63, 161, 1, 216, 80, 73, 209, 76, 132, 187, 208, 89, 18, 169,
	200, 196, 135, 130, 116, 188, 159, 86, 164, 100, 109, 198, 173, 186, 3, 64,
	52, 217, 226, 250, 124, 123, 5, 202, 38, 147, 118, 126, 255, 82, 85, 212,
	207, 206, 59, 227, 47, 16, 58, 17, 182, 189, 28, 42, 223, 183, 170, 213,
	119, 248, 152, 2, 44, 154, 163, 70, 221, 153, 101, 155, 167, 43, 172, 9,
	129, 22, 39, 253, 19, 98, 108, 110, 79, 113, 224, 232, 178, 185, 112, 104,
	218, 246, 97, 228, 251, 34, 242, 193, 238, 210, 144, 12, 191, 179, 162, 241,
	81, 51, 145, 235, 249, 14, 239, 107, 49, 192, 214, 31, 181, 199, 106, 157,
	184, 84, 204, 176, 115, 121, 50, 45, 127, 4, 150, 254, 138, 236, 205, 93,
	222, 114, 67, 29, 24, 72, 243, 141, 128, 195, 78, 66, 215, 61, 156, 180,
}

// The order (including the repeated pairs in the last eight rows) is what the
// shader indexes into; keep it exactly as is.
var gradients4D = Gradient4Table{
	{0, -1, -1, -1}, {0, -1, -1, 1}, {0, -1, 1, -1}, {0, -1, 1, 1},
	{0, 1, -1, -1}, {0, 1, -1, 1}, {0, 1, 1, -1}, {0, 1, 1, 1},
	{-1, -1, 0, -1}, {-1, 1, 0, -1}, {1, -1, 0, -1}, {1, 1, 0, -1},
	{-1, -1, 0, 1}, {-1, 1, 0, 1}, {1, -1, 0, 1}, {1, 1, 0, 1},

	{-1, 0, -1, -1}, {1, 0, -1, -1}, {-1, 0, -1, 1}, {1, 0, -1, 1},
	{-1, 0, 1, -1}, {1, 0, 1, -1}, {-1, 0, 1, 1}, {1, 0, 1, 1},
	{0, -1, -1, 0}, {0, -1, -1, 0}, {0, -1, 1, 0}, {0, -1, 1, 0},
	{0, 1, -1, 0}, {0, 1, -1, 0}, {0, 1, 1, 0}, {0, 1, 1, 0},
}

// Permutation returns the permutation table.
func Permutation() PermutationTable { return permutation }

// Gradients4D returns the 4-D gradient table.
func Gradients4D() Gradient4Table { return gradients4D }

// ZeroCount returns how many components of g are zero.
func (g Gradient4) ZeroCount() int {
	n := 0
	for _, c := range g {
		if c == 0 {
			n++
		}
	}
	return n
}

// L1 returns the sum of absolute component values.
func (g Gradient4) L1() int {
	sum := 0
	for _, c := range g {
		if c < 0 {
			sum -= int(c)
		} else {
			sum += int(c)
		}
	}
	return sum
}
