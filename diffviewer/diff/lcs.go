package diff

// LCSLength returns the length of the longest common subsequence of x and y. Elements are compared
// by exact string equality.
//
// The runtime is O(len(x) * len(y)) in the worst case and the additional space is
// O(min(len(x), len(y))).
func LCSLength(x, y []string) int {
	// A common prefix or suffix is always part of an LCS. Skipping them reduces the amount of work
	// considerably for the common case of two similar texts.
	prefix := longestCommonPrefix(x, y)
	x, y = x[prefix:], y[prefix:]
	suffix := longestCommonSuffix(x, y)
	x, y = x[:len(x)-suffix], y[:len(y)-suffix]
	return prefix + suffix + lcs(x, y)
}

func longestCommonPrefix(x, y []string) int {
	n := min(len(x), len(y))
	for i := range n {
		if x[i] != y[i] {
			return i
		}
	}
	return n
}

func longestCommonSuffix(x, y []string) int {
	n := min(len(x), len(y))
	for i := range n {
		if x[len(x)-i-1] != y[len(y)-i-1] {
			return i
		}
	}
	return n
}

// lcs is the classic dynamic programming solution
//
//	dp[i][j] = dp[i-1][j-1] + 1              if long[i-1] == short[j-1]
//	dp[i][j] = max(dp[i-1][j], dp[i][j-1])   otherwise
//
// with dp[0][*] = dp[*][0] = 0. Only a single row of dp is kept. It is indexed by the shorter
// sequence and updated in place while iterating over the longer one. The diagonal predecessor
// dp[i-1][j-1] is saved before it's overwritten.
func lcs(x, y []string) int {
	long, short := x, y
	if len(short) > len(long) {
		long, short = short, long
	}
	if len(short) == 0 {
		return 0
	}

	row := make([]int, len(short)+1)
	for i := range long {
		diag := 0 // dp[i-1][0]
		for j := range short {
			up := row[j+1] // dp[i-1][j+1]
			if long[i] == short[j] {
				row[j+1] = diag + 1
			} else {
				row[j+1] = max(up, row[j])
			}
			diag = up
		}
	}
	return row[len(short)]
}
