// Package ipa provides the core of a small convolutional regression framework for one-dimensional
// spectral data: tensors, trainable parameters, the interfaces that operators, optimizers and
// penalties implement, and the loops that train and test a network.
//
// Building Networks
//
// Networks are built out of Operators, each of which maps a batch Tensor to another batch Tensor
// and can propagate deltas back through itself. All Operators can be found in the subpackage
// "operators", and the inception-style regression network in "models":
//
//		net := models.New(1)
//
// Signal tensors have the shape (batch, channels, positions); labels and predictions have the
// shape (batch, 1). Operators with weights expose them as *Param values, which carry their
// gradients and a flag indicating whether they are subject to weight regularization.
//
// Training and Testing
//
// Training is done one epoch at a time, with the type TrainArgs used as a proxy for the type of
// optional arguments that are available in other languages:
//
//		loss, err := ipa.Train(net, ipa.TrainArgs{
//			Device:       ipa.CPU(),
//			Data:         trainData,
//			L2:           0.01,
//			Cost:         costfuncs.MSE(),
//			Opt:          optimizers.Adam(),
//			LearningRate: 0.001,
//		})
//
// Train returns the loss of the final batch of the epoch, including the penalty on the weights.
// Test, on the other hand, returns the mean of the criterion over all batches, without any
// penalty:
//
//		loss, err := ipa.Test(net, ipa.CPU(), testData, costfuncs.MSE())
//
// The two are not the same quantity, and comparing them directly overstates the gap
// between training and testing error.
//
// Optimizers, cost functions and hyperparameters can also be constructed by name, once their
// subpackages have been imported (see NewOptimizer, NewCostFunction, NewHyperParameter).
package ipa
