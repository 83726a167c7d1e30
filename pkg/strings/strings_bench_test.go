// Package strings provides benchmarks for string building optimizations
package strings

import (
	"fmt"
	"testing"
)

// Generate test data
func generateTestStrings(count int) []string {
	strs := make([]string, count)
	for i := 0; i < count; i++ {
		strs[i] = fmt.Sprintf("test_string_%d", i)
	}
	return strs
}

// Benchmark string concatenation
func BenchmarkStringConcatenation(b *testing.B) {
	testStrings := generateTestStrings(100)

	b.Run("StandardConcatenation", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			result := ""
			for _, s := range testStrings {
				result += s
			}
			_ = result
		}
	})

	b.Run("PooledConcat", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			result := Concat(testStrings...)
			_ = result
		}
	})
}

// Benchmark sprintf vs pooled sprintf
func BenchmarkSprintfComparison(b *testing.B) {
	format := "string: %s, int: %d, bool: %t, float: %.2f"

	b.Run("StandardSprintf", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			result := fmt.Sprintf(format, "test", 42, true, 3.14)
			_ = result
		}
	})

	b.Run("PooledSprintf", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			result := Sprintf(format, "test", 42, true, 3.14)
			_ = result
		}
	})
}

// Benchmark pooled builder reuse
func BenchmarkPooledBuilder(b *testing.B) {
	parts := generateTestStrings(32)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			builder := GetBuilder(Small)
			for _, s := range parts {
				builder.WriteString(s)
			}
			_ = Clone(builder.String())
			PutBuilder(builder, Small)
		}
	})
}
