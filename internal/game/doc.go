// Package game holds the blackjack hand model and the stateless rule
// functions the table calls each turn: legal actions, dealer play and
// settlement.
package game
