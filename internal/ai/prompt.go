package ai

// CaptionPrompt asks for a single witty caption that connects a childhood photo with a current one.
const CaptionPrompt = `You are creating a fun 'Guess the Child' game.
Here are two photos: one of a person as a child and one of them as an adult.
Write a single, short, witty, and charming caption that humorously or sweetly connects the two photos.
Keep it to one or two sentences. For example: 'The mischievous glint in those eyes? It's definitely still there!'
or 'Some things never change, like that award-winning smile.'`
