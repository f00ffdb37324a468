/*
Package rbm implements a restricted Boltzmann machine trained with
one-step contrastive divergence (CD-1), following Hinton's formulation.

The evaluator plugs into the minimize engine: each batch evaluation runs
a positive phase over the visible data, binarizes the hidden
activations, reconstructs the data in a negative phase, and returns the
squared reconstruction error as cost together with the approximate
gradient of the weights. CD-1 does not follow the gradient of any single
function, so it pairs with plain gradient descent rather than
line-searching optimizers.
*/
package rbm
