package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectEquations_Display(t *testing.T) {
	eqs := DetectEquations("Before\n$$E = mc^2$$\nAfter")
	require.Len(t, eqs, 1)
	assert.Equal(t, "E = mc^2", eqs[0].LaTeX)
	assert.Equal(t, "display", eqs[0].Type)
	assert.InDelta(t, 0.90, *eqs[0].Confidence, 0.001)
}

func TestDetectEquations_EquationEnvironment(t *testing.T) {
	eqs := DetectEquations(`\begin{equation}a + b = c\end{equation}`)
	require.Len(t, eqs, 1)
	assert.Equal(t, "a + b = c", eqs[0].LaTeX)
	assert.Equal(t, "display", eqs[0].Type)
}

func TestDetectEquations_Inline(t *testing.T) {
	eqs := DetectEquations("The value $x + y$ is computed.")
	require.Len(t, eqs, 1)
	assert.Equal(t, "x + y", eqs[0].LaTeX)
	assert.Equal(t, "inline", eqs[0].Type)
}

func TestDetectEquations_DisplayNotDoubleCountedAsInline(t *testing.T) {
	eqs := DetectEquations("$$x^2$$ and $y$")
	require.Len(t, eqs, 2)
	assert.Equal(t, "display", eqs[0].Type)
	assert.Equal(t, "x^2", eqs[0].LaTeX)
	assert.Equal(t, "inline", eqs[1].Type)
	assert.Equal(t, "y", eqs[1].LaTeX)
}

func TestDetectEquations_NoMath(t *testing.T) {
	assert.Empty(t, DetectEquations("Plain prose with no math at all."))
}

func TestEquationVariables(t *testing.T) {
	vars := equationVariables(`\frac{a}{b} + x^2 - a`)
	assert.Equal(t, []string{"a", "b", "x"}, vars)
}

func TestEquationVariables_StripsCommands(t *testing.T) {
	vars := equationVariables(`\sum \alpha`)
	assert.Empty(t, vars)
}
